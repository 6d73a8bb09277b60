package commands

import (
	"go.uber.org/zap"

	"tableflip.dev/tripmap/pkg/logging"
	"tableflip.dev/tripmap/pkg/store"
)

// environment is what every command needs before it runs.
type environment struct {
	cfg    store.Config
	logger *zap.Logger
}

func setup() (*environment, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &environment{
		cfg:    cfg,
		logger: logging.Must(cfg.LogLevel(), cfg.LogFile()),
	}, nil
}

func (e *environment) close() {
	_ = e.logger.Sync()
}
