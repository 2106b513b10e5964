package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/josephlewis42/pipesh/commands"
	"github.com/josephlewis42/pipesh/core/vos"
)

// Exit statuses reported for failures that happen before a process runs.
const (
	StatusOK       = 0
	StatusFailure  = 1
	StatusNoSpawn  = 126
	StatusNotFound = 127
)

// Executor runs pipelines. Builtins run on the calling goroutine and their
// output is buffered; external stages are OS processes joined by pipes.
type Executor struct {
	// OS supplies the search path, working directory and environment.
	OS vos.VOS
	// Env is handed to builtins.
	Env commands.Env
}

// Execute runs every stage of p with the line's streams and blocks until all
// spawned processes exit. The returned status is that of the last stage.
func (e *Executor) Execute(p Pipeline, vio vos.VIO) (int, error) {
	switch len(p) {
	case 0:
		return StatusOK, nil
	case 1:
		return e.runSingle(p[0], vio)
	default:
		return e.runPipeline(p, vio)
	}
}

func (e *Executor) runSingle(argv Command, vio vos.VIO) (int, error) {
	if builtin, ok := commands.Lookup(argv); ok {
		out, err := builtin.Main(e.Env, argv)
		if out != "" {
			io.WriteString(vio.Stdout(), out)
		}
		switch {
		case errors.Is(err, ErrExit):
			return StatusOK, err
		case err != nil:
			return StatusFailure, err
		}
		return StatusOK, nil
	}

	cmd, err := e.command(argv)
	if err != nil {
		return failureStatus(err), err
	}
	cmd.Stdin = vio.Stdin()
	cmd.Stdout = vio.Stdout()
	cmd.Stderr = vio.Stderr()

	if err := cmd.Start(); err != nil {
		return StatusNoSpawn, &SpawnError{Name: argv.Name(), Err: err}
	}
	return exitStatus(cmd.Wait()), nil
}

func (e *Executor) runPipeline(p Pipeline, vio vos.VIO) (int, error) {
	var (
		started []*exec.Cmd

		// At most one of these is set; it is the input for the next stage.
		buffered *string
		upstream *os.File
	)

	closeUpstream := func() {
		if upstream != nil {
			upstream.Close()
			upstream = nil
		}
	}

	abort := func(err error) (int, error) {
		closeUpstream()
		for _, cmd := range started {
			cmd.Process.Kill()
		}
		for _, cmd := range started {
			cmd.Wait()
		}
		return failureStatus(err), err
	}

	status := StatusOK
	for i, argv := range p {
		last := i == len(p)-1

		if builtin, ok := commands.Lookup(argv); ok {
			// Builtins don't read their input.
			closeUpstream()

			out, err := builtin.Main(e.Env, argv)
			status = StatusOK
			if err != nil && !errors.Is(err, ErrExit) {
				fmt.Fprintln(vio.Stderr(), err)
				status = StatusFailure
			}

			if last {
				if out != "" {
					io.WriteString(vio.Stdout(), out)
				}
			} else {
				buffered = &out
			}
			continue
		}

		cmd, err := e.command(argv)
		if err != nil {
			return abort(err)
		}
		cmd.Stderr = vio.Stderr()

		switch {
		case buffered != nil:
			text := *buffered
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			cmd.Stdin = strings.NewReader(text)
			buffered = nil
		case upstream != nil:
			cmd.Stdin = upstream
		default:
			cmd.Stdin = vio.Stdin()
		}

		var next, writeEnd *os.File
		if last {
			cmd.Stdout = vio.Stdout()
		} else {
			r, w, err := os.Pipe()
			if err != nil {
				return abort(&SpawnError{Name: argv.Name(), Err: err})
			}
			cmd.Stdout = w
			next, writeEnd = r, w
		}

		startErr := cmd.Start()

		// The child holds its own copies of the pipe ends now.
		closeUpstream()
		if writeEnd != nil {
			writeEnd.Close()
		}

		if startErr != nil {
			if next != nil {
				next.Close()
			}
			return abort(&SpawnError{Name: argv.Name(), Err: startErr})
		}

		started = append(started, cmd)
		upstream = next
	}
	closeUpstream()

	// Intermediate exit statuses are not inspected.
	for i, cmd := range started {
		err := cmd.Wait()
		if i == len(started)-1 && isExternal(p[len(p)-1]) {
			status = exitStatus(err)
		}
	}

	return status, nil
}

// command resolves argv[0] on the search path and prepares it to run in the
// current working directory with the current environment.
func (e *Executor) command(argv Command) (*exec.Cmd, error) {
	path, err := vos.LookPath(e.OS, argv.Name())
	switch {
	case errors.Is(err, vos.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return nil, &CommandNotFoundError{Name: argv.Name()}
	case err != nil:
		return nil, &SpawnError{Name: argv.Name(), Err: err}
	}

	wd, err := e.OS.Getwd()
	if err != nil {
		return nil, &SpawnError{Name: argv.Name(), Err: err}
	}

	return &exec.Cmd{
		Path: path,
		Args: argv,
		Dir:  wd,
		Env:  e.OS.Environ(),
	}, nil
}

func isExternal(argv Command) bool {
	_, ok := commands.Lookup(argv)
	return !ok
}

// exitStatus converts the result of Wait into a shell status.
func exitStatus(err error) int {
	if err == nil {
		return StatusOK
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	return StatusFailure
}

func failureStatus(err error) int {
	switch err.(type) {
	case *CommandNotFoundError:
		return StatusNotFound
	case *SpawnError:
		return StatusNoSpawn
	default:
		return StatusFailure
	}
}
