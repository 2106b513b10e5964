//go:build unix

package core

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

var aLongTimeAgo = time.Unix(1, 0)

// pausableStdin reads a duplicate of the input descriptor through the
// runtime poller so a blocked read can be cut short with a deadline.
//
// The O_NONBLOCK flag lives on the shared open file description, so it is
// cleared while paused; children inherit a blocking descriptor.
type pausableStdin struct {
	f  *os.File
	fd int

	mu      sync.Mutex
	cond    *sync.Cond
	paused  bool
	reading bool
}

func newTerminalStdin(r io.Reader) terminalStdin {
	in, ok := r.(*os.File)
	if !ok {
		return passthroughStdin{r}
	}

	fd, err := unix.Dup(int(in.Fd()))
	if err != nil {
		return passthroughStdin{r}
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return passthroughStdin{r}
	}

	f := os.NewFile(uintptr(fd), in.Name())
	if err := f.SetReadDeadline(time.Time{}); err != nil {
		// Not pollable, e.g. /dev/null.
		unix.SetNonblock(fd, false)
		f.Close()
		return passthroughStdin{r}
	}

	p := &pausableStdin{f: f, fd: fd}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Read blocks while paused. Reads cut short by Pause are retried once the
// input is resumed, so callers never see the deadline.
func (p *pausableStdin) Read(b []byte) (int, error) {
	for {
		p.mu.Lock()
		for p.paused {
			p.cond.Wait()
		}
		p.reading = true
		p.mu.Unlock()

		n, err := p.f.Read(b)

		p.mu.Lock()
		p.reading = false
		p.cond.Broadcast()
		p.mu.Unlock()

		if n == 0 && errors.Is(err, os.ErrDeadlineExceeded) {
			continue
		}
		return n, err
	}
}

// Pause returns once no read is in flight.
func (p *pausableStdin) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = true
	if err := p.f.SetReadDeadline(aLongTimeAgo); err != nil {
		return err
	}
	for p.reading {
		p.cond.Wait()
	}
	return unix.SetNonblock(p.fd, false)
}

func (p *pausableStdin) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := unix.SetNonblock(p.fd, true); err != nil {
		return err
	}
	if err := p.f.SetReadDeadline(time.Time{}); err != nil {
		return err
	}
	p.paused = false
	p.cond.Broadcast()
	return nil
}
