// Package logging builds the zap logger shared by the CLI and the UI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogFilePerm = 0o644
	defaultLogDirPerm  = 0o755
)

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// New returns a logger at level writing console-encoded lines to path, or
// to stderr when path is empty. The UI owns the terminal, so it always
// passes a file.
func New(level, path string) (*zap.Logger, error) {
	sink, err := open(path)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		sink,
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Must is New with a fallback: when the log file cannot be opened it logs
// nothing rather than writing over the UI.
func Must(level, path string) *zap.Logger {
	logger, err := New(level, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v, continuing without logs\n", err)
		return zap.NewNop()
	}
	return logger
}

func open(path string) (zapcore.WriteSyncer, error) {
	if path == "" {
		return zapcore.Lock(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultLogDirPerm); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultLogFilePerm)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return zapcore.Lock(zapcore.AddSync(f)), nil
}
