package printers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"tableflip.dev/tripmap/pkg/aggregate"
	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/trip"
)

const notesWidth = 72

// PrettyPrint renders trips as colored tables.
type PrettyPrint struct {
	Out io.Writer
}

// DisableColorUnlessTerminal turns colors off when stdout is not a
// terminal or NO_COLOR is set.
func DisableColorUnlessTerminal() {
	fd := os.Stdout.Fd()
	if termenv.EnvNoColor() || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		color.NoColor = true
	}
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " %s\n", noun)
	default:
		_, _ = c.Fprintf(pp.out(), " %ss\n", noun)
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Trips lists trips with their derived rating and photo count.
func (pp *PrettyPrint) Trips(trips ...trip.Trip) {
	pp.TitleWithCount("Trips", len(trips), "trip")
	if len(trips) == 0 {
		pp.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "TITLE", "PLACE", "DATES", "RATING", "PHOTOS")
	for _, t := range trips {
		tbl.AddRow(t.Row())
	}
	tbl.RightAlign(0)
	tbl.RightAlign(4)
	tbl.RightAlign(5)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Trip shows a trip, its locations, the stats derived from them and the
// region the map would focus on.
func (pp *PrettyPrint) Trip(t trip.Trip, locations []trip.Location, stats aggregate.Stats, focus *bounds.Bounds) {
	pp.Title(t.String())

	y := color.New(color.FgHiYellow, color.Faint)
	if place := t.Place(); place != nil {
		_, _ = y.Fprintf(pp.out(), "%s, %s\n", place.City, place.Country)
	}
	if owner := t.Owner(); owner != "" {
		_, _ = y.Fprintf(pp.out(), "shared by %s\n", owner)
	}
	_, _ = fmt.Fprintf(pp.out(), "rating %s  photos %d\n", trip.AverageString(stats.AverageRating), stats.PhotoCount)
	pp.Focus(focus)
	pp.NewLine()

	pp.Locations(locations...)
}

// Locations lists locations, with wrapped notes under each row.
func (pp *PrettyPrint) Locations(locations ...trip.Location) {
	pp.TitleWithCount("Locations", len(locations), "location")
	if len(locations) == 0 {
		pp.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "NAME", "RATING", "COST", "COORDINATES", "TAGS")
	for _, l := range locations {
		tbl.AddRow(l.Row())
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	n := color.New(color.Faint, color.Italic)
	for _, l := range locations {
		if strings.TrimSpace(l.Notes) == "" {
			continue
		}
		_, _ = fmt.Fprintf(pp.out(), "%s (%s)\n", l.Name, l.Duration())
		for _, line := range strings.Split(wordwrap.String(l.Notes, notesWidth), "\n") {
			_, _ = n.Fprintf(pp.out(), "  %s\n", line)
		}
	}
}

// Focus prints a bounding region, or that none could be computed.
func (pp *PrettyPrint) Focus(b *bounds.Bounds) {
	if b == nil {
		_, _ = color.New(color.Faint).Fprintln(pp.out(), "no map focus")
		return
	}
	_, _ = fmt.Fprintf(pp.out(), "focus %s (center %s)\n", b, b.Center())
}

// Gazetteer lists city coordinates.
func (pp *PrettyPrint) Gazetteer(title string, entries ...bounds.Entry) {
	pp.TitleWithCount(title, len(entries), "place")
	if len(entries) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("CITY", "COUNTRY", "LONGITUDE", "LATITUDE")
	for _, e := range entries {
		tbl.AddRow(e.City, e.Country, fmt.Sprintf("%.4f", e.Point.Longitude), fmt.Sprintf("%.4f", e.Point.Latitude))
	}
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
