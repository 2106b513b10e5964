package commands

import (
	"testing"

	"github.com/josephlewis42/pipesh/core/vos/vostest"
)

func addExecutable(t *testing.T, env *testEnv, path string) {
	t.Helper()
	vostest.AddExecutable(t, env.memOS.Fs(), path)
}

func TestType(t *testing.T) {
	withTools := func(t *testing.T, env *testEnv) {
		addExecutable(t, env, "/usr/bin/cat")
		addExecutable(t, env, "/bin/cat")
		vostest.AddFile(t, env.memOS.Fs(), "/bin/readme")
	}

	cases := goldenTestSuite{
		"builtin":        {Args: []string{"type", "cd"}},
		"builtin-exit":   {Args: []string{"type", "exit"}},
		"not-found":      {Args: []string{"type", "nonexistent_cmd_x"}},
		"executable":     {Args: []string{"type", "cat"}, Setup: withTools},
		"not-executable": {Args: []string{"type", "readme"}, Setup: withTools},
		"many":           {Args: []string{"type", "echo", "cat", "nope"}, Setup: withTools},
		"no-arg":         {Args: []string{"type"}},
	}

	cases.Run(t, Type)
}
