package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/afero"
)

// Target is a file a stream is redirected to.
type Target struct {
	Path   string
	Append bool
}

// Redirection is a line with its trailing redirection clauses removed.
type Redirection struct {
	// Residual is the command text before the first matched operator.
	Residual string
	Stdout   *Target
	Stderr   *Target
}

type redirectOp struct {
	token  string
	append bool
}

// Operators for each stream. The forms are disjoint so at most one matches
// at a given offset; list order doesn't matter, see cutRedirect.
var (
	stderrOps = []redirectOp{
		{token: " 2>> ", append: true},
		{token: " 2> ", append: false},
	}

	stdoutOps = []redirectOp{
		{token: " 1>> ", append: true},
		{token: " >> ", append: true},
		{token: " 1> ", append: false},
		{token: " > ", append: false},
	}
)

// Resolve strips the stderr then the stdout redirection from line.
//
// Matching is textual and runs before tokenization, so an operator inside a
// quoted argument is treated as a real one.
func Resolve(line string) Redirection {
	out := Redirection{Residual: line}
	out.Residual, out.Stderr = cutRedirect(out.Residual, stderrOps)
	out.Residual, out.Stdout = cutRedirect(out.Residual, stdoutOps)
	return out
}

// cutRedirect finds the leftmost operator in ops. The text before it is
// returned along with the target named by the first word after it.
//
// Position decides, not operator kind: in "echo a > x 1>> y" the "> x"
// wins over the later "1>> y". Everything after the chosen operator is
// dropped, so resolving the residual again finds nothing.
func cutRedirect(line string, ops []redirectOp) (string, *Target) {
	idx := -1
	var found redirectOp
	for _, op := range ops {
		if i := strings.Index(line, op.token); i >= 0 && (idx < 0 || i < idx) {
			idx = i
			found = op
		}
	}
	if idx < 0 {
		return line, nil
	}

	target := &Target{Append: found.append}
	if fields := strings.Fields(line[idx+len(found.token):]); len(fields) > 0 {
		target.Path = fields[0]
	}
	return line[:idx], target
}

// OpenTarget opens t for writing, creating missing parent directories. The
// file is created or truncated even if nothing is later written to it.
// Relative paths are resolved against the working directory of sys.
func OpenTarget(sys vos.VOS, t *Target) (afero.File, error) {
	name := t.Path
	if name == "" {
		return nil, &RedirectionError{Path: t.Path, Err: os.ErrInvalid}
	}
	if !filepath.IsAbs(name) {
		wd, err := sys.Getwd()
		if err != nil {
			return nil, &RedirectionError{Path: t.Path, Err: err}
		}
		name = filepath.Join(wd, name)
	}

	fs := sys.Fs()
	if err := fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return nil, &RedirectionError{Path: t.Path, Err: err}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if t.Append {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	fd, err := fs.OpenFile(name, flags, 0644)
	if err != nil {
		return nil, &RedirectionError{Path: t.Path, Err: err}
	}
	return fd, nil
}
