// Package config provides the defaults loader for dsget.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is the dotenv file read from the working directory.
const DotEnvFile = ".env"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using an optional YAML file and an
// optional dotenv file.
type Loader struct {
	logger  ports.Logger
	envFile string
}

// NewLoader creates a new Loader reading DotEnvFile.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger, envFile: DotEnvFile}
}

// WithEnvFile overrides the dotenv file location.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads the dotenv file into the environment, then reads the defaults file
// at path and merges it over the built-in defaults.
//
// Variables already present in the environment win over the dotenv file.
// A missing defaults file is not an error.
func (l *Loader) Load(path string) (domain.Settings, error) {
	if err := l.loadEnv(); err != nil {
		return domain.Settings{}, err
	}

	settings := domain.DefaultSettings()
	if endpoint := os.Getenv(domain.EndpointEnvVar); endpoint != "" {
		settings.Endpoint = strings.TrimRight(endpoint, "/")
	}

	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("No defaults file found", "path", path)
			return settings, nil
		}
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Dsgetfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	if err := apply(&settings, &file); err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}

	l.logger.Debug("Loaded defaults file", "path", path)
	return settings, nil
}

func (l *Loader) loadEnv() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to load dotenv file"), "path", l.envFile)
	}
	return nil
}

// apply merges non-zero file values into settings.
func apply(settings *domain.Settings, file *Dsgetfile) error {
	if file.Endpoint != "" {
		settings.Endpoint = strings.TrimRight(file.Endpoint, "/")
	}
	if file.TargetDir != "" {
		settings.TargetDir = file.TargetDir
	}

	if file.MaxWorkers < 0 {
		return zerr.With(domain.ErrInvalidConfig, "max_workers", file.MaxWorkers)
	}
	if file.MaxWorkers > 0 {
		settings.MaxWorkers = file.MaxWorkers
	}

	if file.Timeout != "" {
		timeout, err := time.ParseDuration(file.Timeout)
		if err != nil || timeout < 0 {
			return zerr.With(domain.ErrInvalidConfig, "timeout", file.Timeout)
		}
		settings.Timeout = timeout
	}

	if file.LogLevel != "" {
		settings.LogLevel = domain.ParseLogLevel(file.LogLevel)
	}

	switch strings.ToLower(file.LogFormat) {
	case "":
	case string(domain.LogFormatText), string(domain.LogFormatJSON):
		settings.LogFormat = domain.NormalizeLogFormat(file.LogFormat)
	default:
		return zerr.With(domain.ErrInvalidConfig, "log_format", file.LogFormat)
	}

	return nil
}
