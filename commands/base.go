package commands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/josephlewis42/pipesh/core/history"
	"github.com/josephlewis42/pipesh/core/vos"
)

// ErrExit is returned by the exit builtin to ask the shell to terminate.
var ErrExit = errors.New("exit requested")

// Env is the shell state builtins can see.
type Env interface {
	// OS is the environment, working directory and filesystem.
	OS() vos.VOS
	// History is the session's command log.
	History() *history.History
	// HistoryLoaded is called with entries read from a file by `history -r`.
	HistoryLoaded(lines []string)
}

// ShellBuiltin runs synchronously in the shell's process and returns its
// output as text instead of streaming it.
type ShellBuiltin interface {
	Main(env Env, args []string) (string, error)
}

type ShellBuiltinFunc func(env Env, args []string) (string, error)

func (f ShellBuiltinFunc) Main(env Env, args []string) (string, error) {
	return f(env, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

func mustAddBuiltin(name string, builtin ShellBuiltinFunc) {
	if _, ok := AllBuiltins[name]; ok {
		panic(fmt.Sprintf("builtin %q registered twice", name))
	}
	AllBuiltins[name] = builtin
}

// IsBuiltin reports whether name is a builtin.
func IsBuiltin(name string) bool {
	_, ok := AllBuiltins[name]
	return ok
}

// Lookup finds the builtin that handles argv. Only the exact form `exit 0` is
// handled by the exit builtin, every other exit form falls through to the
// external command search.
func Lookup(argv []string) (ShellBuiltin, bool) {
	if len(argv) == 0 {
		return nil, false
	}
	if argv[0] == "exit" && !isExitZero(argv) {
		return nil, false
	}
	builtin, ok := AllBuiltins[argv[0]]
	return builtin, ok
}

func isExitZero(argv []string) bool {
	return len(argv) == 2 && argv[1] == "0"
}

// Names returns the sorted builtin names.
func Names() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
