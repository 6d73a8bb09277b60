package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/tripmap/pkg/trip"
	"tableflip.dev/tripmap/pkg/tui/theme"
)

type formField int

const (
	fieldName formField = iota
	fieldRating
	fieldCost
	fieldTime
	fieldTags
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldName:   "Name",
	fieldRating: "Rating (0-5)",
	fieldCost:   "Cost",
	fieldTime:   "Minutes",
	fieldTags:   "Tags",
	fieldNotes:  "Notes",
}

// editForm holds the inputs for a location being edited.
type editForm struct {
	base   trip.Location
	inputs [fieldCount]textinput.Model
	focus  formField
}

func newEditForm(loc trip.Location) *editForm {
	f := &editForm{base: loc.Clone()}
	values := [fieldCount]string{
		fieldName:  loc.Name,
		fieldCost:  string(loc.CostLevel),
		fieldTags:  strings.Join(loc.Tags, ", "),
		fieldNotes: loc.Notes,
	}
	if loc.Rating > 0 {
		values[fieldRating] = strconv.Itoa(loc.Rating)
	}
	if loc.TimeNeeded != nil {
		values[fieldTime] = strconv.Itoa(*loc.TimeNeeded)
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldCost].Placeholder = "Free, $, $$ or $$$"
	f.inputs[fieldTags].Placeholder = "comma separated"
	f.inputs[fieldName].Focus()
	return f
}

func (f *editForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = formField((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
	return f.inputs[f.focus].Focus()
}

func (f *editForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *editForm) set(field formField, value string) {
	f.inputs[field].SetValue(value)
}

// location reads the inputs back onto the edited record. Unparseable
// numbers are reported as validation failures.
func (f *editForm) location() (trip.Location, error) {
	loc := f.base.Clone()
	value := func(field formField) string {
		return strings.TrimSpace(f.inputs[field].Value())
	}

	loc.Name = value(fieldName)
	loc.Rating = 0
	if v := value(fieldRating); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil {
			return loc, fmt.Errorf("rating %q is not a number: %w", v, trip.ErrValidation)
		}
		loc.Rating = r
	}
	loc.CostLevel = trip.CostLevel(value(fieldCost))
	loc.TimeNeeded = nil
	if v := value(fieldTime); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return loc, fmt.Errorf("minutes %q is not a number: %w", v, trip.ErrValidation)
		}
		loc.TimeNeeded = trip.Int(minutes)
	}
	loc.Tags = trip.NormalizeTags(strings.Split(value(fieldTags), ","))
	loc.Notes = value(fieldNotes)
	return loc, nil
}

func (f *editForm) view(th theme.Theme, width int) string {
	lines := make([]string, 0, fieldCount+2)
	for i := range f.inputs {
		label := fmt.Sprintf("%-13s", fieldLabels[i])
		if formField(i) == f.focus {
			label = th.Panel.Selected.Render(label)
		} else {
			label = th.Panel.Faint.Render(label)
		}
		lines = append(lines, label+" "+f.inputs[i].View())
	}
	if n := len(f.base.PendingPhotoUploads); n > 0 {
		lines = append(lines, "", th.Panel.Faint.Render(fmt.Sprintf("%d photo(s) upload after save", n)))
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
