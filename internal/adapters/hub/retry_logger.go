package hub

import (
	"github.com/hashicorp/go-retryablehttp"
	"go.trai.ch/dsget/internal/core/ports"
)

var _ retryablehttp.LeveledLogger = retryLogger{}

// retryLogger routes retryablehttp's request and retry messages to ports.Logger.
// Retry errors are surfaced as warnings; per-request chatter stays at debug.
type retryLogger struct {
	logger ports.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l retryLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l retryLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l retryLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}
