package domain

import "time"

const (
	// DefaultEndpoint is the public Hugging Face Hub.
	DefaultEndpoint = "https://huggingface.co"
	// DefaultMaxWorkers bounds the number of files fetched at once.
	DefaultMaxWorkers = 8
	// DefaultTimeout bounds a single Hub metadata request.
	DefaultTimeout = 30 * time.Second
	// DefaultConfigFile is the optional defaults file looked up in the working directory.
	DefaultConfigFile = "dsget.yaml"
)

// Settings holds process-wide defaults that flags may override.
type Settings struct {
	Endpoint   string
	TargetDir  string
	MaxWorkers int
	Timeout    time.Duration
	LogLevel   LogLevel
	LogFormat  LogFormat
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Endpoint:   DefaultEndpoint,
		TargetDir:  DefaultTargetDir,
		MaxWorkers: DefaultMaxWorkers,
		Timeout:    DefaultTimeout,
		LogLevel:   LogLevelInfo,
		LogFormat:  LogFormatText,
	}
}
