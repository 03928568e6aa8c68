package ports

import "go.trai.ch/dsget/internal/core/domain"

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a diagnostic message with optional key/value pairs.
	Debug(msg string, args ...any)
	// Info logs an informational message with optional key/value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning with optional key/value pairs.
	Warn(msg string, args ...any)
	// Error logs err together with its cause chain.
	Error(err error)

	// SetLevel changes the minimum level that is emitted.
	SetLevel(level domain.LogLevel)
	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)
}
