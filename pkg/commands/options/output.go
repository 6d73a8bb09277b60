package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/tripmap/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
	YAML bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
	cmd.Flags().BoolVar(&po.YAML, "yaml", false,
		"Output as YAML.")
}

// Validate rejects asking for both structured formats.
func (o *OutputOptions) Validate() error {
	if o.JSON && o.YAML {
		return errors.New("--json and --yaml are mutually exclusive")
	}
	return nil
}

// Format returns the printer format the flags select.
func (o *OutputOptions) Format() printers.Format {
	switch {
	case o.JSON:
		return printers.FormatJSON
	case o.YAML:
		return printers.FormatYAML
	}
	return printers.FormatPretty
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
