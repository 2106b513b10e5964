package core

import (
	"fmt"

	"github.com/josephlewis42/pipesh/commands"
	"github.com/josephlewis42/pipesh/core/history"
)

// ErrExit is returned by RunLine when the line asked the shell to terminate.
var ErrExit = commands.ErrExit

// HistoryError reports a failed history file read or flush.
type HistoryError = history.Error

// ParseError is returned when a line can't be split into arguments.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CommandNotFoundError is returned when a name is neither a builtin nor an
// executable on the search path.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}

// SpawnError is returned when an executable was found but the process could
// not be started. The whole line is abandoned.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// RedirectionError is returned when a redirection target can't be opened.
// The command is not run.
type RedirectionError struct {
	Path string
	Err  error
}

func (e *RedirectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *RedirectionError) Unwrap() error {
	return e.Err
}

// errorKind names the error category for logging.
func errorKind(err error) string {
	switch err.(type) {
	case *ParseError:
		return "parse"
	case *CommandNotFoundError:
		return "command_not_found"
	case *SpawnError:
		return "spawn"
	case *RedirectionError:
		return "redirection"
	case *HistoryError:
		return "history"
	default:
		return "builtin"
	}
}
