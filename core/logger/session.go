package logger

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// SessionLogger logs shell events with a shared session ID.
type SessionLogger struct {
	log zerolog.Logger
}

// NewSession creates a logger with an attached random session ID.
func NewSession(l zerolog.Logger) *SessionLogger {
	return NewSessionWithID(l, fmt.Sprintf("%d", rand.Uint64()))
}

// NewSessionWithID creates a logger with the given session ID.
func NewSessionWithID(l zerolog.Logger, sessionID string) *SessionLogger {
	return &SessionLogger{
		log: l.With().Str("session_id", sessionID).Logger(),
	}
}

// Logger returns the underlying logger with the session ID attached.
func (l *SessionLogger) Logger() zerolog.Logger {
	return l.log
}

// RunCommand records an accepted line.
func (l *SessionLogger) RunCommand(line string, stages int) {
	l.log.Info().
		Str("event", "run_command").
		Str("line", line).
		Int("stages", stages).
		Msg("run command")
}

// UnknownCommand records a name that was neither a builtin nor on the search
// path.
func (l *SessionLogger) UnknownCommand(name string) {
	l.log.Warn().
		Str("event", "unknown_command").
		Str("command", name).
		Msg("command not found")
}

// HistoryFlush records a history file write.
func (l *SessionLogger) HistoryFlush(path, mode string, written int, err error) {
	event := l.log.Info()
	if err != nil {
		event = l.log.Error().Err(err)
	}
	event.
		Str("event", "history_flush").
		Str("path", path).
		Str("mode", mode).
		Int("written", written).
		Msg("flush history")
}

// ShellError records a failed line.
func (l *SessionLogger) ShellError(kind string, err error) {
	l.log.Error().
		Str("event", "shell_error").
		Str("kind", kind).
		Err(err).
		Msg("line failed")
}
