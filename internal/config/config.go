// Package config resolves stepquiz settings from flags, environment, an
// optional YAML file and built-in defaults, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/stepquiz/internal/logging"
)

// Environment variables.
const (
	EnvDB        = "STEPQUIZ_DB"
	EnvLogLevel  = "STEPQUIZ_LOG_LEVEL"
	EnvLogFormat = "STEPQUIZ_LOG_FORMAT"
	EnvConfig    = "STEPQUIZ_CONFIG"
)

// Config holds resolved settings.
type Config struct {
	DBPath    string `yaml:"db"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Overrides carries explicitly set flag values. Empty fields are unset.
type Overrides struct {
	DBPath     string
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

// Defaults returns the built-in settings.
func Defaults() (Config, error) {
	dataHome, err := xdgDir("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return Config{}, err
	}
	return Config{
		DBPath:    filepath.Join(dataHome, "stepquiz", "stepquiz.db"),
		LogLevel:  "info",
		LogFormat: logging.FormatConsole,
	}, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/stepquiz/config.yaml.
func DefaultConfigPath() (string, error) {
	configHome, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "stepquiz", "config.yaml"), nil
}

// Load resolves the configuration. A missing default config file is not an
// error; a missing explicitly named one is.
func Load(o Overrides) (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}

	path, explicit := o.ConfigPath, o.ConfigPath != ""
	if !explicit {
		if p := os.Getenv(EnvConfig); p != "" {
			path, explicit = p, true
		}
	}
	if !explicit {
		if path, err = DefaultConfigPath(); err != nil {
			return Config{}, err
		}
	}

	file, err := readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return Config{}, err
	default:
		cfg = merge(cfg, file)
	}

	cfg = merge(cfg, Config{
		DBPath:    os.Getenv(EnvDB),
		LogLevel:  os.Getenv(EnvLogLevel),
		LogFormat: os.Getenv(EnvLogFormat),
	})
	cfg = merge(cfg, Config{DBPath: o.DBPath, LogLevel: o.LogLevel, LogFormat: o.LogFormat})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log settings.
func (c Config) Validate() error {
	var errs []string
	if c.DBPath == "" {
		errs = append(errs, "db path is empty")
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Sprintf("log level %q is not one of %s", c.LogLevel, strings.Join(logging.Levels, ", ")))
	}
	if c.LogFormat != logging.FormatConsole && c.LogFormat != logging.FormatJSON {
		errs = append(errs, fmt.Sprintf("log format %q is not console or json", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

func merge(base, over Config) Config {
	if over.DBPath != "" {
		base.DBPath = over.DBPath
	}
	if over.LogLevel != "" {
		base.LogLevel = strings.ToLower(over.LogLevel)
	}
	if over.LogFormat != "" {
		base.LogFormat = strings.ToLower(over.LogFormat)
	}
	return base
}

func xdgDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}
