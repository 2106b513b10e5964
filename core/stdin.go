package core

import "io"

// terminalStdin is the line editor's view of standard input. Pause keeps
// the editor's reader off the descriptor so a running pipeline gets every
// keystroke; Resume hands it back.
type terminalStdin interface {
	io.Reader
	Pause() error
	Resume() error
}

// passthroughStdin is used when the input can't be paused, e.g. when it
// isn't a file or the platform has no readiness polling for it.
type passthroughStdin struct {
	io.Reader
}

func (passthroughStdin) Pause() error  { return nil }
func (passthroughStdin) Resume() error { return nil }
