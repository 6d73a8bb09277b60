package ui

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableflip.dev/tripmap/pkg/api"
	"tableflip.dev/tripmap/pkg/navigator"
	"tableflip.dev/tripmap/pkg/store"
	"tableflip.dev/tripmap/pkg/tui/app"
)

// UI runs the interactive trip browser.
type UI struct {
	Config    store.Config
	Overrides store.Overrides
	Logger    *zap.Logger
	// Demo serves the sample trips from memory instead of the backend.
	Demo bool
}

// Backend holds the collaborators the UI talks to.
type Backend struct {
	navigator.Backend
	Uploader navigator.Uploader
	Creator  app.Creator
}

// NewBackend picks the demo or HTTP backend.
func NewBackend(cfg store.Config, demo bool) Backend {
	if demo {
		mem := api.NewDemo(api.WithOwner(cfg.UserID()))
		return Backend{Backend: mem, Uploader: mem, Creator: mem}
	}
	c := api.NewClient(cfg.APIURL(), api.WithTimeout(cfg.Timeout()), api.WithUserID(cfg.UserID()))
	return Backend{Backend: c, Uploader: c}
}

func (n *UI) Do(_ context.Context) error {
	if n.Config == nil {
		return errors.New("can not start ui, no config")
	}
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := NewBackend(n.Config, n.Demo)
	nav := navigator.New(navigator.Options{
		Backend:     b.Backend,
		Uploader:    b.Uploader,
		Gazetteer:   store.Gazetteer(n.Overrides),
		FocusRadius: n.Config.FocusRadius(),
		Timeout:     n.Config.Timeout(),
		UserID:      n.Config.UserID(),
		Logger:      logger.Named("navigator"),
	})

	logger.Info("starting ui", zap.Bool("demo", n.Demo), zap.String("api", n.Config.APIURL()))
	return app.Run(app.Options{
		Navigator: nav,
		Creator:   b.Creator,
		Overrides: n.Overrides,
		UserID:    n.Config.UserID(),
		Logger:    logger.Named("ui"),
	})
}
