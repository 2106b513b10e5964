// Package history keeps the ordered log of accepted command lines and tracks
// how much of it has been flushed to a backing file.
package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// History is an append-only log of command lines plus a watermark marking
// how many leading entries are already durable in the backing file.
//
// Entries are never mutated or reordered and the watermark never decreases or
// exceeds Len(). History is not safe for concurrent use, it's owned by the
// shell's read loop.
type History struct {
	fs      afero.Fs
	entries []string
	flushed int
}

// New creates an empty history persisted through fs.
func New(fs afero.Fs) *History {
	return &History{fs: fs}
}

// Append adds a line to the in-memory log only.
func (h *History) Append(line string) {
	h.entries = append(h.entries, line)
}

// Entries returns a copy of the log.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Watermark returns the number of leading entries known to be durable.
func (h *History) Watermark() int {
	return h.flushed
}

// Pending returns the entries accumulated since the last flush.
func (h *History) Pending() []string {
	return h.entries[h.flushed:]
}

// Load reads path line by line and appends every non-blank trimmed line. The
// watermark advances to the new length. It returns the loaded entries.
func (h *History) Load(path string) ([]string, error) {
	fd, err := h.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var loaded []string
	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			loaded = append(loaded, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	h.entries = append(h.entries, loaded...)
	h.flushed = len(h.entries)
	return loaded, nil
}

// WriteAll truncates path and writes every entry, one per line. The watermark
// advances to the full length.
func (h *History) WriteAll(path string) error {
	fd, err := h.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := writeLines(fd, h.entries); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return err
	}

	h.flushed = len(h.entries)
	return nil
}

// AppendNew appends the entries added since the last flush to path, creating
// it if needed. It's a no-op when nothing is pending. It returns the number
// of entries written.
func (h *History) AppendNew(path string) (int, error) {
	pending := h.Pending()
	if len(pending) == 0 {
		return 0, nil
	}

	fd, err := h.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return 0, err
	}

	if err := writeLines(fd, pending); err != nil {
		fd.Close()
		return 0, err
	}
	if err := fd.Close(); err != nil {
		return 0, err
	}

	h.flushed = len(h.entries)
	return len(pending), nil
}

// Flush persists the log at exit: if the file at path is missing or empty the
// full log is written, otherwise only pending entries are appended. The
// returned mode is "write" or "append".
func (h *History) Flush(path string) (mode string, written int, err error) {
	info, statErr := h.fs.Stat(path)
	if statErr != nil || info.Size() == 0 {
		if err := h.WriteAll(path); err != nil {
			return "write", 0, err
		}
		return "write", h.Len(), nil
	}

	written, err = h.AppendNew(path)
	return "append", written, err
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Render writes entries to w, one per line, as a 1-based index followed by two
// spaces and the entry. If limit parses as a non-negative integer N only the
// last N entries are shown, keeping their absolute indices. An empty or
// unparseable limit shows everything.
func Render(w io.Writer, entries []string, limit string) error {
	start := 0
	if n, err := strconv.Atoi(limit); err == nil && n >= 0 && n < len(entries) {
		start = len(entries) - n
	}

	for i := start; i < len(entries); i++ {
		if _, err := fmt.Fprintf(w, "%5d  %s\n", i+1, entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// Error reports a failed history file operation.
type Error struct {
	// Op is one of "read", "write" or "append".
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("history: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
