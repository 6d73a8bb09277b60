package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/navigator"
	"tableflip.dev/tripmap/pkg/trip"
	"tableflip.dev/tripmap/pkg/tui/theme"
)

const (
	sidebarWidth = 46
	minMapWidth  = 30
)

// View renders the nav bar, the sidebar for the active view, the map focus
// pane and the status line.
func (m *Model) View() string {
	sidebar := m.theme.Panel.Frame.Width(sidebarWidth).Render(m.sidebarView(sidebarWidth - 4))

	mapWidth := m.width - sidebarWidth - 2
	if mapWidth < minMapWidth {
		mapWidth = minMapWidth
	}
	mapPane := m.theme.Map.Frame.Width(mapWidth).Render(m.mapView(mapWidth - 4))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mapPane)
	return lipgloss.JoinVertical(lipgloss.Left, m.navView(), body, m.statusView())
}

func (m *Model) navView() string {
	active := m.nav.View()
	switch active {
	case navigator.TripDetail, navigator.LocationDetail:
		active = navigator.TripList
	}
	items := []struct {
		key  string
		view navigator.View
		name string
	}{
		{"1", navigator.Home, "Home"},
		{"2", navigator.TripList, "Trips"},
		{"3", navigator.Friends, "Friends"},
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%s %s", it.key, it.name)
		if it.view == active {
			parts = append(parts, m.theme.Nav.Active.Render(label))
		} else {
			parts = append(parts, m.theme.Nav.Item.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) statusView() string {
	line := m.theme.Footer.Status.Render(m.status)
	if err := m.nav.LastError(); err != nil {
		line = m.theme.Footer.Error.Render("ERR: " + err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, m.theme.Footer.Help.Render(m.helpText()))
}

func (m *Model) helpText() string {
	switch {
	case m.prompting:
		return "enter add • esc cancel"
	case m.form != nil:
		return "tab next field • enter save • esc cancel"
	case m.filtering:
		return "enter keep filter • esc clear"
	}
	switch m.nav.View() {
	case navigator.Home:
		return "enter open • t all trips • tab map • q quit"
	case navigator.TripList:
		return "enter open • / filter • esc back • tab map • q quit"
	case navigator.TripDetail:
		return "enter open • a add location • esc back • tab map • q quit"
	case navigator.LocationDetail:
		return "e edit • esc back • tab map • q quit"
	}
	return "1 home • 2 trips • 3 friends • q quit"
}

func (m *Model) sidebarView(width int) string {
	if m.prompting {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Panel.Title.Render("Add location"),
			m.prompt.View())
	}

	switch m.nav.View() {
	case navigator.Home:
		return m.tripsView("Recent trips", m.homeTrips(), width)
	case navigator.TripList:
		title := "My trips"
		if m.filtering || m.filter.Value() != "" {
			title += "\n" + m.filter.View()
		}
		return m.tripsView(title, m.visibleTrips(), width)
	case navigator.TripDetail:
		return m.tripView(width)
	case navigator.LocationDetail:
		return m.locationView(width)
	case navigator.Friends:
		return m.friendsView(width)
	}
	return ""
}

func (m *Model) row(i int, text string) string {
	if m.pane == paneSidebar && i == m.cursor {
		return m.theme.Panel.Selected.Render("> " + text)
	}
	return "  " + text
}

func (m *Model) tripsView(title string, trips []trip.Trip, width int) string {
	lines := []string{m.theme.Panel.Title.Render(title), ""}
	if len(trips) == 0 {
		lines = append(lines, m.theme.Panel.Faint.Render("  no trips"))
	}
	for i, t := range trips {
		lines = append(lines, m.row(i, truncate(t.Title, width-12)+" "+m.rating(t.Rating)))
		lines = append(lines, m.theme.Panel.Faint.Render("    "+placeLine(t)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) tripView(width int) string {
	t, ok := m.nav.SelectedTrip()
	if !ok {
		return ""
	}
	lines := []string{
		m.theme.Panel.Title.Render(truncate(t.Title, width)),
		m.theme.Panel.Faint.Render(placeLine(t)),
		fmt.Sprintf("%s  %d photos", m.rating(t.Rating), t.PhotoCount),
	}
	if owner := t.Owner(); owner != "" {
		lines = append(lines, m.theme.Panel.Faint.Render("Shared by "+owner))
	}
	lines = append(lines, "")

	locs := m.tripLocations()
	if len(locs) == 0 {
		lines = append(lines, m.theme.Panel.Faint.Render("  no locations yet"))
	}
	for i, l := range locs {
		stars := lipgloss.NewStyle().Foreground(theme.RatingColor(float64(l.Rating))).Render(trip.Stars(l.Rating))
		lines = append(lines, m.row(i, truncate(l.Name, width-10)+" "+stars))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) locationView(width int) string {
	if m.form != nil {
		title := "Edit location"
		if m.nav.Saving() {
			title += " (saving)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.theme.Panel.Title.Render(title), "", m.form.view(m.theme, width))
	}

	l, ok := m.nav.SelectedLocation()
	if !ok {
		return ""
	}
	stars := lipgloss.NewStyle().Foreground(theme.RatingColor(float64(l.Rating))).Render(trip.Stars(l.Rating))
	lines := []string{m.theme.Panel.Title.Render(truncate(l.Name, width))}
	if l.Address != "" {
		lines = append(lines, m.theme.Panel.Faint.Render(l.Address))
	}
	if owner := m.sharedOwner(); owner != "" {
		lines = append(lines, m.theme.Panel.Faint.Render("Shared by "+owner))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("%s  %s  %s", stars, orDash(string(l.CostLevel)), l.Duration()),
	)
	if len(l.Tags) > 0 {
		lines = append(lines, "#"+strings.Join(l.Tags, " #"))
	}
	if strings.TrimSpace(l.Notes) != "" {
		lines = append(lines, "", wordwrap.String(l.Notes, width))
	}
	lines = append(lines, "", m.theme.Panel.Title.Render(fmt.Sprintf("Photos (%d)", len(l.Photos))))
	for _, p := range l.Photos {
		name := p.OriginalFilename
		if name == "" {
			name = p.FileURL
		}
		if p.IsCoverPhoto {
			name += " ★"
		}
		lines = append(lines, "  "+truncate(name, width-2))
	}
	if !m.nav.CanEdit(m.userID) {
		lines = append(lines, "", m.theme.Panel.Faint.Render("read only"))
	}
	return strings.Join(lines, "\n")
}

// sharedOwner names the owner shown in the location header: the trip's
// when it is shared, otherwise the owner of the photo it was opened from.
func (m *Model) sharedOwner() string {
	if t, ok := m.nav.SelectedTrip(); ok && t.Shared() {
		return t.Owner()
	}
	return m.nav.SharedOwner()
}

func (m *Model) friendsView(width int) string {
	lines := []string{m.theme.Panel.Title.Render("Shared with me"), ""}
	shared := m.sharedTrips()
	if len(shared) == 0 {
		lines = append(lines, m.theme.Panel.Faint.Render("  nothing shared yet"))
	}
	for _, t := range shared {
		lines = append(lines, "  "+truncate(t.Title, width-2))
		lines = append(lines, m.theme.Panel.Faint.Render("    by "+t.Owner()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) mapView(width int) string {
	lines := []string{m.theme.Panel.Title.Render("Map")}
	focus, ok := m.nav.Focus()
	if !ok {
		lines = append(lines, m.theme.Panel.Faint.Render("no focus"))
	} else {
		lines = append(lines,
			m.theme.Panel.Faint.Render("focus "+truncate(focus.String(), width-6)),
			m.theme.Panel.Faint.Render("center "+focus.Center().String()))
	}
	lines = append(lines, "")

	photos := m.mapPhotos()
	if len(photos) == 0 {
		lines = append(lines, m.theme.Panel.Faint.Render("no geotagged photos"))
	}
	for i, p := range photos {
		pt := bounds.Point{Longitude: *p.X, Latitude: *p.Y}
		marker := "·"
		if ok && focus.Contains(pt) {
			marker = m.theme.Map.Marker.Render("●")
		}
		label := fmt.Sprintf("%s photo %d %s", marker, p.ID, pt)
		if owner := p.Owner(); owner != "" {
			label += " (" + owner + ")"
		}
		label = truncate(label, width)
		if m.pane == paneMap && i == m.cursor {
			label = m.theme.Panel.Selected.Render("> ") + label
		} else {
			label = "  " + label
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) rating(r *float64) string {
	if r == nil {
		return m.theme.Panel.Faint.Render("unrated")
	}
	return lipgloss.NewStyle().Foreground(theme.RatingColor(*r)).Render("★ " + trip.AverageString(r))
}

func placeLine(t trip.Trip) string {
	parts := make([]string, 0, 2)
	if place := t.Place(); place != nil {
		if place.Country != "" {
			parts = append(parts, place.City+", "+place.Country)
		} else {
			parts = append(parts, place.City)
		}
	}
	parts = append(parts, trip.FormatRange(t.StartDate, t.EndDate))
	return strings.Join(parts, " · ")
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
