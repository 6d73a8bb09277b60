package show

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/tripmap/pkg/aggregate"
	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/navigator"
	"tableflip.dev/tripmap/pkg/printers"
	"tableflip.dev/tripmap/pkg/trip"
)

// Show prints a trip with its locations, the stats derived from them and
// the map focus.
type Show struct {
	Backend   navigator.Backend
	TripID    int64
	Gazetteer bounds.Gazetteer
	Radius    float64
	// BoundsOnly prints just the focus region.
	BoundsOnly bool
	Format     printers.Format
	Out        io.Writer
}

// Result is the structured form of a shown trip.
type Result struct {
	Trip      trip.Trip       `json:"trip"`
	Locations []trip.Location `json:"locations"`
	Focus     *bounds.Bounds  `json:"focus"`
}

func (n *Show) Do(ctx context.Context) error {
	if n.Backend == nil {
		return errors.New("can not show trip, no backend")
	}
	t, locations, err := n.Backend.Trip(ctx, n.TripID)
	if err != nil {
		return err
	}

	stats := aggregate.Recalculate(locations)
	t = aggregate.Apply(t, stats)

	calc := bounds.Calculator{Gazetteer: n.Gazetteer, Radius: n.Radius}
	var focus *bounds.Bounds
	if b, ok := calc.Compute(trip.Points(locations), t.Place()); ok {
		focus = &b
	}

	if n.Format != printers.FormatPretty {
		if n.BoundsOnly {
			return printers.Structured(n.Out, n.Format, map[string]*bounds.Bounds{"focus": focus})
		}
		return printers.Structured(n.Out, n.Format, Result{Trip: t, Locations: locations, Focus: focus})
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.BoundsOnly {
		pp.Focus(focus)
		return nil
	}
	pp.NewLine()
	pp.Trip(t, locations, stats, focus)
	return nil
}
