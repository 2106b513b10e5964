package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/pipesh/core/history"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/josephlewis42/pipesh/core/vos/vostest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

type testEnv struct {
	memOS  *vostest.MemOS
	hist   *history.History
	loaded []string
}

var _ Env = (*testEnv)(nil)

func newTestEnv() *testEnv {
	memOS := vostest.NewMemOS()
	return &testEnv{
		memOS: memOS,
		hist:  history.New(memOS.Fs()),
	}
}

func (e *testEnv) OS() vos.VOS {
	return e.memOS
}

func (e *testEnv) History() *history.History {
	return e.hist
}

func (e *testEnv) HistoryLoaded(lines []string) {
	e.loaded = append(e.loaded, lines...)
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args []string
	// Setup optionally prepares the environment before the builtin runs.
	Setup func(t *testing.T, env *testEnv)
}

// Run executes each case and compares its output, followed by any error, to
// a golden file.
func (gts goldenTestSuite) Run(t *testing.T, builtin ShellBuiltinFunc) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
		goldie.WithSubTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			env := newTestEnv()
			if tc.Setup != nil {
				tc.Setup(t, env)
			}

			out, err := builtin(env, tc.Args)
			buf := &bytes.Buffer{}
			buf.WriteString(out)
			if err != nil {
				fmt.Fprintf(buf, "error: %v\n", err)
			}

			g.Assert(t, tn, buf.Bytes())
		})
	}
}

func TestAllBuiltins(t *testing.T) {
	assert.Equal(t, []string{"cd", "echo", "exit", "history", "pwd", "type"}, Names())

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			assert.True(t, IsBuiltin(name))
			assert.NotNil(t, AllBuiltins[name])
		})
	}
}

func TestLookup(t *testing.T) {
	cases := map[string]struct {
		argv []string
		want bool
	}{
		"builtin":         {[]string{"echo", "hi"}, true},
		"external":        {[]string{"ls"}, false},
		"exit zero":       {[]string{"exit", "0"}, true},
		"bare exit":       {[]string{"exit"}, false},
		"exit other code": {[]string{"exit", "1"}, false},
		"empty":           {nil, false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, ok := Lookup(tc.argv)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestExit(t *testing.T) {
	out, err := Exit(newTestEnv(), []string{"exit", "0"})

	assert.Empty(t, out)
	assert.ErrorIs(t, err, ErrExit)
}
