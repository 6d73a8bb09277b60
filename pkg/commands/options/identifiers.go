package options

import (
	"errors"
	"fmt"
	"strconv"
)

// TripIDOptions
type TripIDOptions struct {
	ID int64
}

// Parse reads the trip id from the first positional argument.
func (o *TripIDOptions) Parse(args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one trip id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid trip id %q", args[0])
	}
	o.ID = id
	return nil
}
