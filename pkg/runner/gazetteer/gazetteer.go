package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/printers"
	"tableflip.dev/tripmap/pkg/store"
)

// Gazetteer manages city coordinate overrides used for the map focus
// fallback.
type Gazetteer struct {
	Overrides store.Overrides
	Format    printers.Format
	Out       io.Writer
}

func (n *Gazetteer) check() error {
	if n.Overrides == nil {
		return errors.New("can not manage gazetteer, no override store")
	}
	return nil
}

// Add stores an override for city.
func (n *Gazetteer) Add(_ context.Context, e bounds.Entry) error {
	if err := n.check(); err != nil {
		return err
	}
	if strings.TrimSpace(e.City) == "" {
		return errors.New("city is required")
	}
	if e.Point.Longitude < -180 || e.Point.Longitude > 180 || e.Point.Latitude < -90 || e.Point.Latitude > 90 {
		return fmt.Errorf("coordinate %s out of range", e.Point)
	}
	return n.Overrides.Store(e)
}

// Remove deletes the override for city.
func (n *Gazetteer) Remove(_ context.Context, city, country string) error {
	if err := n.check(); err != nil {
		return err
	}
	return n.Overrides.Delete(city, country)
}

// List prints the overrides, or the built-in table when builtin is set.
func (n *Gazetteer) List(ctx context.Context, builtin bool) error {
	title := "Overrides"
	var entries []bounds.Entry
	if builtin {
		title = "Built-in"
		entries = bounds.Static().Entries()
	} else {
		if err := n.check(); err != nil {
			return err
		}
		entries = n.Overrides.List(ctx)
	}

	if n.Format != printers.FormatPretty {
		return printers.Structured(n.Out, n.Format, entries)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Gazetteer(title, entries...)
	return nil
}

// Lookup resolves city through the overrides and then the built-in table,
// printing the fallback box a trip there would focus on.
func (n *Gazetteer) Lookup(_ context.Context, city, country string, radius float64) error {
	calc := bounds.Calculator{Gazetteer: store.Gazetteer(n.Overrides), Radius: radius}
	b, ok := calc.Compute(nil, &bounds.Place{City: city, Country: country})
	if !ok {
		return fmt.Errorf("no coordinate known for %s, %s", city, country)
	}
	if n.Format != printers.FormatPretty {
		return printers.Structured(n.Out, n.Format, map[string]any{
			"city":    city,
			"country": country,
			"point":   b.Center(),
			"focus":   b,
		})
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Gazetteer("Lookup", bounds.Entry{City: city, Country: country, Point: b.Center()})
	pp.Focus(&b)
	return nil
}
