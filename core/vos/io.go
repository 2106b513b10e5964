package vos

import (
	"io"
	"os"
	"strings"
)

// VIO holds the standard streams a command is bound to.
type VIO interface {
	Stdin() io.Reader
	Stdout() io.Writer
	Stderr() io.Writer
}

// VIOAdapter binds arbitrary readers and writers as a VIO.
type VIOAdapter struct {
	IStdin  io.Reader
	IStdout io.Writer
	IStderr io.Writer
}

// NewVIOAdapter creates a VIO, nil streams are replaced with an empty reader
// or a discarding writer.
func NewVIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  readerOrEmpty(stdin),
		IStdout: writerOrDiscard(stdout),
		IStderr: writerOrDiscard(stderr),
	}
}

// NewHostIO binds the process's own standard streams.
func NewHostIO() *VIOAdapter {
	return NewVIOAdapter(os.Stdin, os.Stdout, os.Stderr)
}

var _ VIO = (*VIOAdapter)(nil)

func (pr *VIOAdapter) Stdin() io.Reader {
	return pr.IStdin
}

func (pr *VIOAdapter) Stdout() io.Writer {
	return pr.IStdout
}

func (pr *VIOAdapter) Stderr() io.Writer {
	return pr.IStderr
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func readerOrEmpty(r io.Reader) io.Reader {
	if r == nil {
		return strings.NewReader("")
	}
	return r
}
