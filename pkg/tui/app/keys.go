package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tripmap/pkg/navigator"
	"tableflip.dev/tripmap/pkg/trip"
)

const recentTrips = 5

// handleKey runs the action bound to key. It reports false when the key
// should be typed into the focused input instead.
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	if key == "ctrl+c" {
		m.close()
		return tea.Quit, true
	}

	switch {
	case m.prompting:
		return m.handlePromptKey(key)
	case m.form != nil:
		return m.handleFormKey(key)
	case m.filtering:
		return m.handleFilterKey(key)
	}

	switch key {
	case "q":
		m.close()
		return tea.Quit, true
	case "1":
		return m.nav.Navigate(navigator.Home), true
	case "2":
		return m.nav.Navigate(navigator.TripList), true
	case "3":
		return m.nav.Navigate(navigator.Friends), true
	case "r":
		m.setStatus("Refreshing trips")
		return m.nav.RefreshTrips(), true
	case "tab":
		if m.pane == paneSidebar {
			m.pane = paneMap
		} else {
			m.pane = paneSidebar
		}
		m.cursor = 0
		return nil, true
	case "up", "k":
		m.cursor--
		return nil, true
	case "down", "j":
		m.cursor++
		return nil, true
	case "esc", "backspace", "h", "left":
		if m.pane == paneMap {
			m.pane = paneSidebar
			m.cursor = 0
			return nil, true
		}
		return m.nav.Back(), true
	case "enter", "l", "right":
		return m.activate(), true
	}

	switch m.nav.View() {
	case navigator.Home:
		if key == "t" {
			return m.nav.OpenTripList(), true
		}
	case navigator.TripList:
		if key == "/" {
			m.filtering = true
			m.cursor = 0
			return m.filter.Focus(), true
		}
	case navigator.TripDetail:
		if key == "a" {
			if m.creator == nil {
				m.setStatus("Adding locations needs the demo backend")
				return nil, true
			}
			m.prompting = true
			m.prompt.SetValue("")
			return m.prompt.Focus(), true
		}
	case navigator.LocationDetail:
		if key == "e" {
			cmd := m.nav.RequestEdit()
			if !m.nav.Editing() {
				m.setStatus("This location is read only")
			}
			return cmd, true
		}
	}
	return nil, true
}

func (m *Model) handlePromptKey(key string) (tea.Cmd, bool) {
	switch key {
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return nil, true
	case "enter":
		t, ok := m.nav.SelectedTrip()
		m.prompting = false
		m.prompt.Blur()
		if !ok {
			return nil, true
		}
		return m.createLocationCmd(t.ID, m.prompt.Value()), true
	}
	return nil, false
}

func (m *Model) handleFormKey(key string) (tea.Cmd, bool) {
	switch key {
	case "esc":
		cmd := m.nav.Cancel()
		m.form = nil
		m.setStatus("Edit cancelled")
		return cmd, true
	case "tab", "down":
		return m.form.move(1), true
	case "shift+tab", "up":
		return m.form.move(-1), true
	case "enter", "ctrl+s":
		loc, err := m.form.location()
		if err != nil {
			m.setStatus(err.Error())
			return nil, true
		}
		cmd := m.nav.Save(loc)
		if err := m.nav.LastError(); err != nil && errors.Is(err, trip.ErrValidation) {
			m.setStatus(err.Error())
		} else if cmd != nil {
			m.setStatus("Saving " + loc.Name)
		}
		return cmd, true
	}
	return nil, false
}

func (m *Model) handleFilterKey(key string) (tea.Cmd, bool) {
	switch key {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return nil, true
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.cursor = 0
		return nil, true
	}
	return nil, false
}

// activate opens whatever the cursor is on.
func (m *Model) activate() tea.Cmd {
	if m.pane == paneMap {
		photos := m.mapPhotos()
		if m.cursor < len(photos) {
			return m.nav.PhotoClicked(photos[m.cursor])
		}
		return nil
	}

	switch m.nav.View() {
	case navigator.Home:
		trips := m.homeTrips()
		if m.cursor < len(trips) {
			return m.nav.SelectTrip(trips[m.cursor])
		}
		return m.nav.OpenTripList()
	case navigator.TripList:
		trips := m.visibleTrips()
		if m.cursor < len(trips) {
			return m.nav.SelectTrip(trips[m.cursor])
		}
	case navigator.TripDetail:
		locs := m.tripLocations()
		if m.cursor < len(locs) {
			return m.nav.SelectLocation(locs[m.cursor])
		}
	case navigator.LocationDetail:
		if !m.nav.Editing() {
			return m.nav.RequestEdit()
		}
	}
	return nil
}

// rows is the number of selectable rows in the focused pane.
func (m *Model) rows() int {
	if m.pane == paneMap {
		return len(m.mapPhotos())
	}
	switch m.nav.View() {
	case navigator.Home:
		return len(m.homeTrips())
	case navigator.TripList:
		return len(m.visibleTrips())
	case navigator.TripDetail:
		return len(m.tripLocations())
	}
	return 0
}

func (m *Model) homeTrips() []trip.Trip {
	trips := m.nav.Trips()
	if len(trips) > recentTrips {
		trips = trips[:recentTrips]
	}
	return trips
}

func (m *Model) visibleTrips() []trip.Trip {
	return trip.Search(m.filter.Value(), m.nav.Trips())
}

func (m *Model) sharedTrips() []trip.Trip {
	var out []trip.Trip
	for _, t := range m.nav.Trips() {
		if t.Shared() {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) tripLocations() []trip.Location {
	t, ok := m.nav.SelectedTrip()
	if !ok {
		return nil
	}
	return m.nav.TripLocations(t.ID)
}

// mapPhotos lists the geotagged photos shown as markers: the selected
// trip's when there is one, otherwise every stored photo.
func (m *Model) mapPhotos() []trip.Photo {
	var locs []trip.Location
	if t, ok := m.nav.SelectedTrip(); ok {
		locs = m.nav.TripLocations(t.ID)
	} else {
		_, store := m.nav.Store()
		locs = store.List()
	}
	var out []trip.Photo
	for _, l := range locs {
		for _, p := range l.Photos {
			if p.X == nil || p.Y == nil {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
