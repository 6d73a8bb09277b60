package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config interface {
	// BasePath is the data directory holding logs and gazetteer overrides.
	BasePath() string
	APIURL() string
	Timeout() time.Duration
	LogLevel() string
	LogFile() string
	FocusRadius() float64
	UserID() int64
}

const (
	defaultPath    = "~/.tripmap"
	defaultAPIURL  = "http://localhost:8000/api"
	defaultTimeout = 10 * time.Second
	defaultRadius  = 0.05
	gazetteerDir   = "gazetteer"
)

// LoadConfig reads .tripmap.yaml from TRIPMAP_CONFIG_PATH or the working
// directory. Every key can be overridden by a TRIPMAP_ prefixed variable.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("focus_radius", defaultRadius)
	v.SetDefault("user_id", 1)
	v.SetConfigName(".tripmap") // .yaml is implicit
	v.SetEnvPrefix("TRIPMAP")
	v.AutomaticEnv()

	if override := os.Getenv("TRIPMAP_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path %q: %w", v.GetString("path"), err)
	}
	logFile := v.GetString("log_file")
	if logFile == "" {
		logFile = filepath.Join(path, "tripmap.log")
	} else if logFile, err = homedir.Expand(logFile); err != nil {
		return nil, fmt.Errorf("store: expand log_file: %w", err)
	}

	return &fileConfig{
		Path:   path,
		API:    v.GetString("api_url"),
		Wait:   v.GetDuration("timeout"),
		Level:  v.GetString("log_level"),
		Log:    logFile,
		Radius: v.GetFloat64("focus_radius"),
		User:   v.GetInt64("user_id"),
	}, nil
}

type fileConfig struct {
	Path   string        `json:"path"`
	API    string        `json:"api_url"`
	Wait   time.Duration `json:"timeout"`
	Level  string        `json:"log_level"`
	Log    string        `json:"log_file"`
	Radius float64       `json:"focus_radius"`
	User   int64         `json:"user_id"`
}

func (f *fileConfig) BasePath() string       { return f.Path }
func (f *fileConfig) APIURL() string         { return f.API }
func (f *fileConfig) Timeout() time.Duration { return f.Wait }
func (f *fileConfig) LogLevel() string       { return f.Level }
func (f *fileConfig) LogFile() string        { return f.Log }
func (f *fileConfig) FocusRadius() float64   { return f.Radius }
func (f *fileConfig) UserID() int64          { return f.User }
