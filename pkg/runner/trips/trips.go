package trips

import (
	"context"
	"errors"
	"io"
	"sort"

	"tableflip.dev/tripmap/pkg/navigator"
	"tableflip.dev/tripmap/pkg/printers"
	"tableflip.dev/tripmap/pkg/trip"
)

// Trips lists the trips visible to the user.
type Trips struct {
	Backend navigator.Backend
	// Match fuzzy filters by title, place and owner.
	Match  string
	Shared bool
	Format printers.Format
	Out    io.Writer
}

func (n *Trips) Do(ctx context.Context) error {
	if n.Backend == nil {
		return errors.New("can not list trips, no backend")
	}
	all, err := n.Backend.Trips(ctx)
	if err != nil {
		return err
	}

	if n.Match == "" {
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].StartDate.After(all[j].StartDate.Time)
		})
	}
	all = trip.Search(n.Match, all)
	if n.Shared {
		shared := make([]trip.Trip, 0, len(all))
		for _, t := range all {
			if t.Shared() {
				shared = append(shared, t)
			}
		}
		all = shared
	}

	if n.Format != printers.FormatPretty {
		return printers.Structured(n.Out, n.Format, all)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Trips(all...)
	return nil
}
