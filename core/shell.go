package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/pipesh/commands"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/history"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/shell"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// Shell reads lines, runs them and keeps the session's history.
type Shell struct {
	VirtualOS vos.VOS
	IO        vos.VIO
	Config    *config.Configuration
	Lexer     shell.Lexer
	Log       *logger.SessionLogger

	// LastStatus is the exit status of the most recent line.
	LastStatus int

	history     *history.History
	historyPath string
	executor    *Executor
	completer   *Completer
	readline    *readline.Instance
	errColor    *color.Color
}

var _ commands.Env = (*Shell)(nil)

// NewShell creates a shell over the given OS and terminal streams.
func NewShell(virtualOS vos.VOS, vio vos.VIO, cfg *config.Configuration, log *logger.SessionLogger) *Shell {
	s := &Shell{
		VirtualOS: virtualOS,
		IO:        vio,
		Config:    cfg,
		Lexer:     shell.DefaultLexer,
		Log:       log,
		history:   history.New(virtualOS.Fs()),
		completer: &Completer{OS: virtualOS},
		errColor:  color.New(color.FgRed),
	}
	s.executor = &Executor{OS: virtualOS, Env: s}
	if !cfg.Color || !isTerminal(vio.Stderr()) {
		s.errColor.DisableColor()
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// OS implements commands.Env.
func (s *Shell) OS() vos.VOS {
	return s.VirtualOS
}

// History implements commands.Env.
func (s *Shell) History() *history.History {
	return s.history
}

// HistoryLoaded implements commands.Env, it makes entries read from a file
// reachable from the line editor.
func (s *Shell) HistoryLoaded(lines []string) {
	if s.readline == nil {
		return
	}
	for _, line := range lines {
		s.readline.SaveHistory(line)
	}
}

// Completer returns the shell's completion engine.
func (s *Shell) Completer() *Completer {
	return s.completer
}

// LoadHistory reads the session's history file, if one is configured, and
// remembers it so Close can flush to it. A missing file is not an error.
func (s *Shell) LoadHistory() error {
	path := s.Config.HistoryPath(s.VirtualOS)
	if path == "" {
		return nil
	}
	s.historyPath = path

	exists, err := afero.Exists(s.VirtualOS.Fs(), path)
	if err != nil || !exists {
		return s.historyError("read", path, err)
	}
	if _, err := s.history.Load(path); err != nil {
		return s.historyError("read", path, err)
	}
	return nil
}

// Close flushes pending history to the history file: everything if the file
// is empty or missing, otherwise only what was added since the last flush.
func (s *Shell) Close() error {
	if s.readline != nil {
		s.readline.Close()
		s.readline = nil
	}
	if s.historyPath == "" {
		return nil
	}

	mode, written, err := s.history.Flush(s.historyPath)
	s.Log.HistoryFlush(s.historyPath, mode, written, err)
	return s.historyError(mode, s.historyPath, err)
}

func (s *Shell) historyError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	histErr := &HistoryError{Op: op, Path: path, Err: err}
	s.printError(s.IO.Stderr(), histErr)
	return histErr
}

// RunLine runs one line of input. Failures are reported to the line's stderr
// and returned. ErrExit is returned if the line asked the shell to terminate.
func (s *Shell) RunLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	s.history.Append(line)
	s.LastStatus = StatusOK

	redirection := Resolve(line)
	pipeline, err := Parse(redirection.Residual, s.Lexer)
	if err != nil {
		return s.fail(s.IO.Stderr(), err)
	}
	if len(pipeline) == 0 {
		return nil
	}

	// Targets are created before the command runs, even if it writes nothing.
	stdout, stderr := s.IO.Stdout(), s.IO.Stderr()
	if redirection.Stdout != nil {
		fd, err := OpenTarget(s.VirtualOS, redirection.Stdout)
		if err != nil {
			return s.fail(s.IO.Stderr(), err)
		}
		defer fd.Close()
		stdout = fd
	}
	if redirection.Stderr != nil {
		fd, err := OpenTarget(s.VirtualOS, redirection.Stderr)
		if err != nil {
			return s.fail(s.IO.Stderr(), err)
		}
		defer fd.Close()
		stderr = fd
	}

	s.Log.RunCommand(line, len(pipeline))
	status, err := s.executor.Execute(pipeline, vos.NewVIOAdapter(s.IO.Stdin(), stdout, stderr))
	s.LastStatus = status
	switch {
	case errors.Is(err, ErrExit):
		return err
	case err != nil:
		return s.fail(stderr, err)
	}
	return nil
}

// fail records err and prints it to w.
func (s *Shell) fail(w io.Writer, err error) error {
	var notFound *CommandNotFoundError
	if errors.As(err, &notFound) {
		s.Log.UnknownCommand(notFound.Name)
		s.LastStatus = StatusNotFound
	} else {
		s.Log.ShellError(errorKind(err), err)
		if s.LastStatus == StatusOK {
			s.LastStatus = StatusFailure
		}
	}
	s.printError(w, err)
	return err
}

func (s *Shell) printError(w io.Writer, err error) {
	if w == s.IO.Stderr() {
		s.errColor.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, err)
}

// Run reads and runs lines until the input ends or `exit 0` is entered.
// Interrupts discard the current line.
func (s *Shell) Run() error {
	autoComplete := &AutoCompleter{
		Completer: s.completer,
		Bell:      s.IO.Stdout(),
	}

	stdin := newTerminalStdin(s.IO.Stdin())
	// Leave the descriptor blocking for whoever reads it next.
	defer stdin.Pause()

	cfg := &readline.Config{
		Prompt:                 s.Config.Prompt,
		Stdin:                  readline.NewCancelableStdin(stdin),
		Stdout:                 s.IO.Stdout(),
		Stderr:                 s.IO.Stderr(),
		AutoComplete:           autoComplete,
		DisableAutoSaveHistory: true,
	}
	if err := cfg.Init(); err != nil {
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	s.readline = rl
	autoComplete.Listing = rl.Stdout()

	s.HistoryLoaded(s.history.Entries())

	for {
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			return err

		case strings.TrimSpace(line) == "":
			continue
		}

		rl.SaveHistory(strings.TrimSpace(line))
		if err := s.runPaused(stdin, line); errors.Is(err, ErrExit) {
			return nil
		}
	}
}

// runPaused runs line with the line editor's reader parked, so children
// reading the terminal see every keystroke.
func (s *Shell) runPaused(stdin terminalStdin, line string) error {
	log := s.Log.Logger()
	if err := stdin.Pause(); err != nil {
		log.Warn().Err(err).Msg("pause stdin")
	}
	defer func() {
		if err := stdin.Resume(); err != nil {
			log.Warn().Err(err).Msg("resume stdin")
		}
	}()
	return s.RunLine(line)
}
