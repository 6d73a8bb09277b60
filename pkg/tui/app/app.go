// Package app is the Bubble Tea front end for browsing trips. It renders the
// navigator's state and turns key presses into navigator transitions.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"tableflip.dev/tripmap/pkg/navigator"
	"tableflip.dev/tripmap/pkg/store"
	"tableflip.dev/tripmap/pkg/trip"
	"tableflip.dev/tripmap/pkg/tui/theme"
)

const createTimeout = 5 * time.Second

// Creator adds locations to a trip. The in-memory backend implements it so
// the upload flow can be exercised without the upload pipeline.
type Creator interface {
	CreateLocation(ctx context.Context, loc trip.Location, pending []trip.PendingPhotoUpload) (trip.Location, error)
}

// Options wires the model to its collaborators. Creator and Overrides are
// optional.
type Options struct {
	Navigator *navigator.Navigator
	Creator   Creator
	Overrides store.Overrides
	UserID    int64
	Logger    *zap.Logger
}

type pane int

const (
	paneSidebar pane = iota
	paneMap
)

type locationCreatedMsg struct {
	location trip.Location
	pending  []trip.PendingPhotoUpload
	err      error
}

// Model is the root Bubble Tea model.
type Model struct {
	nav       *navigator.Navigator
	creator   Creator
	overrides store.Overrides
	userID    int64
	logger    *zap.Logger
	theme     theme.Theme

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	pane     pane
	cursor   int
	lastView navigator.View

	filter    textinput.Model
	filtering bool

	prompt    textinput.Model
	prompting bool

	form *editForm

	status string

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New constructs the root model.
func New(opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter trips"
	prompt := textinput.New()
	prompt.Prompt = "+ "
	prompt.Placeholder = "Location name +photo.jpg"

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	nav := opts.Navigator
	if nav == nil {
		nav = navigator.New(navigator.Options{UserID: opts.UserID, Logger: logger})
	}
	return &Model{
		nav:       nav,
		creator:   opts.Creator,
		overrides: opts.Overrides,
		userID:    opts.UserID,
		logger:    logger,
		theme:     theme.Default(),
		ctx:       ctx,
		cancel:    cancel,
		filter:    filter,
		prompt:    prompt,
		lastView:  nav.View(),
		status:    "Ready",
	}
}

// Run launches the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.close()
	p := tea.NewProgram(m, tea.WithAltScreen())

	trips, locations := m.nav.Store()
	go forwardChanges(m.ctx, trips.Events(), locations.Events(), p.Send)

	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.nav.Init(), startWatchCmd(m.ctx, m.overrides))
}

// Update routes Bubble Tea messages to the navigator and inputs.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyPressMsg:
		cmd, handled := m.handleKey(msg.String())
		if !handled {
			cmd = m.forward(msg)
		}
		cmds = append(cmds, cmd)
	case navigator.TripsLoadedMsg, navigator.TripLoadedMsg, navigator.LocationLoadedMsg,
		navigator.LocationSavedMsg, navigator.PhotosUploadedMsg, navigator.UploadEvent:
		cmds = append(cmds, m.nav.Update(msg))
	case storeChangedMsg:
		m.handleStoreChange(msg)
	case locationCreatedMsg:
		if msg.err != nil {
			m.setStatus("Add location failed: " + msg.err.Error())
			break
		}
		m.setStatus("Added " + msg.location.Name)
		cmds = append(cmds, m.nav.UploadCompleted(navigator.UploadEvent{
			Locations: []trip.Location{msg.location},
			Pending:   msg.pending,
		}))
	case watchStartedMsg:
		if msg.err != nil {
			m.logger.Warn("watch gazetteer", zap.Error(msg.err))
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		m.handleWatchEvent(msg.event)
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	}

	m.sync()
	return m, batch(cmds)
}

// forward hands unhandled keys to whichever input has focus.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.prompting:
		m.prompt, cmd = m.prompt.Update(msg)
	case m.form != nil:
		cmd = m.form.update(msg)
	case m.filtering:
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
	}
	return cmd
}

// sync aligns local UI state with the navigator after a transition.
func (m *Model) sync() {
	if view := m.nav.View(); view != m.lastView {
		m.cursor = 0
		m.pane = paneSidebar
		m.lastView = view
	}

	switch {
	case !m.nav.Editing():
		m.form = nil
	case m.form == nil:
		if draft, ok := m.nav.Draft(); ok {
			m.form = newEditForm(draft)
		}
	}

	if n := m.rows(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
}

func (m *Model) close() {
	m.stopWatch()
	if m.cancel != nil {
		m.cancel()
	}
}

// createLocationCmd adds a location to tripID from prompt input of the form
// "name +file +file".
func (m *Model) createLocationCmd(tripID int64, input string) tea.Cmd {
	var name []string
	var pending []trip.PendingPhotoUpload
	for _, field := range strings.Fields(input) {
		if strings.HasPrefix(field, "+") && len(field) > 1 {
			p, err := trip.NewPendingUpload(field[1:], 0)
			if err == nil {
				pending = append(pending, p)
			}
			continue
		}
		name = append(name, field)
	}
	loc := trip.Location{TripID: tripID, Name: strings.Join(name, " ")}
	if err := validateNew(loc); err != nil {
		m.setStatus(err.Error())
		return nil
	}

	creator := m.creator
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, createTimeout)
		defer cancel()
		created, err := creator.CreateLocation(ctx, loc, nil)
		if err != nil {
			return locationCreatedMsg{err: err}
		}
		for i := range pending {
			pending[i].LocationID = created.ID
		}
		return locationCreatedMsg{location: created, pending: pending}
	}
}

// validateNew checks a location before it has an id.
func validateNew(loc trip.Location) error {
	candidate := loc.Normalize()
	candidate.ID = 1
	return candidate.Validate()
}

func batch(cmds []tea.Cmd) tea.Cmd {
	var out []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return tea.Batch(out...)
}
