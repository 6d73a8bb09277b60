package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/tripmap/pkg/trip"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Nav    NavTheme
	Footer FooterTheme
	Panel  PanelTheme
	Map    MapTheme
}

// NavTheme styles the persistent Home / Trips / Friends bar.
type NavTheme struct {
	Item   lipgloss.Style
	Active lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style
	Faint    lipgloss.Style
}

// MapTheme styles the focus pane standing in for the map.
type MapTheme struct {
	Frame  lipgloss.Style
	Marker lipgloss.Style
}

var (
	low  = colorful.Color{R: 0.85, G: 0.33, B: 0.31}
	high = colorful.Color{R: 0.36, G: 0.72, B: 0.36}
)

// RatingColor blends from red to green across the star scale. Unrated
// values render grey.
func RatingColor(rating float64) color.Color {
	if rating <= 0 {
		return lipgloss.Color("244")
	}
	t := rating / trip.MaxRating
	if t > 1 {
		t = 1
	}
	return low.BlendLab(high, t).Clamped()
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	return Theme{
		Nav: NavTheme{
			Item:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
			Active: lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title:    lipgloss.NewStyle().Bold(true),
			Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Faint:    lipgloss.NewStyle().Faint(true),
		},
		Map: MapTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				Padding(0, 1),
			Marker: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		},
	}
}
