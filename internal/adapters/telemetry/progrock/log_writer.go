package progrock

import (
	"bytes"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/dsget/internal/core/domain"
	"go.trai.ch/dsget/internal/core/ports"
)

var _ progrock.Writer = (*LogWriter)(nil)

// LogWriter consumes progrock status updates and renders them through a
// logger: one record per vertex log line and one per finished vertex.
type LogWriter struct {
	logger ports.Logger

	mu       sync.Mutex
	vertexes map[string]*vertexState
}

type vertexState struct {
	name string
	buf  bytes.Buffer
	done bool
}

// NewLogWriter creates a LogWriter emitting to logger.
func NewLogWriter(logger ports.Logger) *LogWriter {
	return &LogWriter{
		logger:   logger,
		vertexes: make(map[string]*vertexState),
	}
}

// WriteStatus processes a single status update.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		state := w.state(v.Id)
		if v.Name != "" {
			state.name = v.Name
		}
	}

	for _, l := range update.Logs {
		state := w.state(l.Vertex)
		state.buf.Write(l.Data)
		w.emitLines(state, false)
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil {
			continue
		}
		state := w.state(v.Id)
		if state.done {
			continue
		}
		state.done = true
		w.emitLines(state, true)
		w.emitCompleted(state, v)
	}

	return nil
}

// Close flushes buffered output of vertexes that never completed.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, state := range w.vertexes {
		w.emitLines(state, true)
	}
	return nil
}

func (w *LogWriter) state(id string) *vertexState {
	state, ok := w.vertexes[id]
	if !ok {
		state = &vertexState{name: id}
		w.vertexes[id] = state
	}
	return state
}

// emitLines logs every complete line buffered for state, and the trailing
// partial line as well when flush is set.
func (w *LogWriter) emitLines(state *vertexState, flush bool) {
	for {
		line, err := state.buf.ReadString('\n')
		if err != nil {
			if flush {
				w.emitLine(state.name, line)
			} else {
				// Incomplete line, keep it for the next update.
				state.buf.Reset()
				state.buf.WriteString(line)
			}
			return
		}
		w.emitLine(state.name, line)
	}
}

func (w *LogWriter) emitLine(name, line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" || w.logger == nil {
		return
	}

	level, msg := splitLevel(line)
	switch {
	case level >= domain.LogLevelWarn:
		w.logger.Warn(msg, "file", name)
	case level >= domain.LogLevelInfo:
		w.logger.Info(msg, "file", name)
	default:
		w.logger.Debug(msg, "file", name)
	}
}

func (w *LogWriter) emitCompleted(state *vertexState, v *progrock.Vertex) {
	if w.logger == nil {
		return
	}

	switch {
	case v.Error != nil:
		w.logger.Warn("File failed", "file", state.name, "error", *v.Error)
	case v.Canceled:
		w.logger.Debug("File canceled", "file", state.name)
	case v.Cached:
		w.logger.Debug("File up to date", "file", state.name)
	default:
		args := []any{"file", state.name}
		if v.Started != nil {
			args = append(args, "duration", v.Completed.AsTime().Sub(v.Started.AsTime()))
		}
		w.logger.Info("File downloaded", args...)
	}
}

// splitLevel parses a "[LEVEL] msg" line. Lines without a known level tag are
// debug output.
func splitLevel(line string) (domain.LogLevel, string) {
	rest, ok := strings.CutPrefix(line, "[")
	if !ok {
		return domain.LogLevelDebug, line
	}
	tag, msg, ok := strings.Cut(rest, "] ")
	if !ok {
		return domain.LogLevelDebug, line
	}
	level := domain.ParseLogLevel(tag)
	if level.String() != tag {
		return domain.LogLevelDebug, line
	}
	return level, msg
}
