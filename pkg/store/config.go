package store

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the store and tunes its logging.
type Config interface {
	BasePath() string
	LogLevel() string
}

// LoadConfig reads .helpdesk.yaml from $HELPDESK_CONFIG_PATH or the working
// directory, with HELPDESK_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.helpdesk.db")
	v.SetDefault("log-level", "warn")
	v.SetConfigName(".helpdesk") // .yaml is implicit
	v.SetEnvPrefix("HELPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("HELPDESK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("expand store path: %w", err)
	}

	return &fileConfig{
		Path:  path,
		Level: v.GetString("log-level"),
		File:  v.ConfigFileUsed(),
	}, nil
}

type fileConfig struct {
	Path  string `json:"path"`
	Level string `json:"logLevel"`
	File  string `json:"file,omitempty"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}

// ConfigFile reports the config file that was read, if any.
func ConfigFile(cfg Config) string {
	if fc, ok := cfg.(*fileConfig); ok {
		return fc.File
	}
	return ""
}

// NewLogger builds the stderr logger for the configured level.
func NewLogger(cfg Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg != nil {
		level = ParseLevel(cfg.LogLevel())
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps debug, info, warn and error to slog levels; anything
// else is warn.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
