package core

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/pipesh/commands"
	"github.com/josephlewis42/pipesh/core/vos"
)

// Completion is the result of one completion request.
type Completion struct {
	// Start is the byte offset of the fragment being completed. Accepting a
	// candidate replaces line[Start:cursor].
	Start int
	// Fragment is the partial word before the cursor.
	Fragment string
	// Candidates are full replacement words. Finished words end with a space.
	Candidates []string
	// Bell is set when the user should be alerted that nothing more can be
	// completed.
	Bell bool
	// Listing holds every match when a repeated request asked to see them.
	Listing []string
}

// WriteFeedback writes the alert or the listing followed by a fresh prompt
// and the unchanged line.
func (c Completion) WriteFeedback(w io.Writer, prompt, line string) error {
	switch {
	case c.Bell:
		_, err := io.WriteString(w, "\a")
		return err
	case len(c.Listing) > 0:
		_, err := fmt.Fprintf(w, "\n%s\n%s%s", strings.Join(c.Listing, "  "), prompt, line)
		return err
	default:
		return nil
	}
}

// Completer completes builtin names and executables on the search path. It
// remembers the previous request so a repeated one can escalate from an alert
// to a listing. A Completer must not be shared between line editors.
type Completer struct {
	OS vos.VOS

	lastLine string
	lastPos  int
	count    int
}

// Complete computes candidates for the word ending at byte offset pos.
func (c *Completer) Complete(line string, pos int) Completion {
	if pos < 0 || pos > len(line) {
		pos = len(line)
	}
	repeat := c.track(line, pos)

	before := line[:pos]
	fragment := ""
	if fields := strings.Fields(before); len(fields) > 0 && !endsInSpace(before) {
		fragment = fields[len(fields)-1]
	}
	start := pos - len(fragment)
	out := Completion{Start: start, Fragment: fragment}

	var builtins []string
	if strings.TrimSpace(line[:start]) == "" {
		for _, name := range commands.Names() {
			if strings.HasPrefix(name, fragment) {
				builtins = append(builtins, name+" ")
			}
		}
	}

	executables := vos.ListExecutables(c.OS, fragment)
	if fragment != "" && len(executables) >= 2 {
		if prefix := commonPrefix(executables); len(prefix) > len(fragment) {
			out.Candidates = []string{prefix}
			return out
		}

		if repeat == 1 {
			out.Bell = true
		} else {
			out.Listing = executables
		}
		return out
	}

	out.Candidates = builtins
	for _, name := range executables {
		out.Candidates = append(out.Candidates, name+" ")
	}
	return out
}

// track records the request and returns how many times in a row it was made.
func (c *Completer) track(line string, pos int) int {
	if c.count > 0 && line == c.lastLine && pos == c.lastPos {
		c.count++
	} else {
		c.lastLine, c.lastPos, c.count = line, pos, 1
	}
	return c.count
}

func endsInSpace(s string) bool {
	if s == "" {
		return true
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, word := range words[1:] {
		n := 0
		for n < len(prefix) && n < len(word) && prefix[n] == word[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// AutoCompleter adapts a Completer to readline.
type AutoCompleter struct {
	Completer *Completer
	// Bell receives the alert, usually the raw terminal.
	Bell io.Writer
	// Listing receives the match list. readline's own Stdout redraws the
	// prompt and line after each write.
	Listing io.Writer
}

var _ readline.AutoCompleter = (*AutoCompleter)(nil)

// Do implements readline.AutoCompleter. It returns the text to insert after
// the fragment for each candidate, and the fragment's length in runes.
func (a *AutoCompleter) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	text := string(line)
	comp := a.Completer.Complete(text, len(string(line[:pos])))

	switch {
	case comp.Bell:
		io.WriteString(a.Bell, "\a")
	case len(comp.Listing) > 0:
		fmt.Fprintln(a.Listing, strings.Join(comp.Listing, "  "))
	}

	var suffixes [][]rune
	for _, candidate := range comp.Candidates {
		suffixes = append(suffixes, []rune(strings.TrimPrefix(candidate, comp.Fragment)))
	}
	return suffixes, len([]rune(comp.Fragment))
}
