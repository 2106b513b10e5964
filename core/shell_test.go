package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/history"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/josephlewis42/pipesh/core/vos/vostest"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testShell struct {
	*Shell

	memOS  *vostest.MemOS
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	logs   *bytes.Buffer
}

func newTestShell(t *testing.T) *testShell {
	t.Helper()
	return newTestShellWithOS(t, vostest.NewMemOS())
}

func newTestShellWithOS(t *testing.T, memOS *vostest.MemOS) *testShell {
	t.Helper()

	ts := &testShell{
		memOS:  memOS,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		logs:   &bytes.Buffer{},
	}
	session := logger.NewSessionWithID(zerolog.New(ts.logs), "test")
	ts.Shell = NewShell(memOS, vos.NewVIOAdapter(nil, ts.stdout, ts.stderr), config.Default(), session)
	return ts
}

func historyOn(fs afero.Fs, entries []string) *history.History {
	h := history.New(fs)
	for _, entry := range entries {
		h.Append(entry)
	}
	return h
}

func (ts *testShell) readFile(t *testing.T, name string) string {
	t.Helper()

	data, err := afero.ReadFile(ts.memOS.Fs(), name)
	require.NoError(t, err)
	return string(data)
}

func (ts *testShell) events(t *testing.T) []string {
	t.Helper()

	var out []string
	for _, line := range strings.Split(strings.TrimSpace(ts.logs.String()), "\n") {
		if line == "" {
			continue
		}
		entry := make(map[string]interface{})
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry["event"].(string))
	}
	return out
}

func TestShell_RunLine_redirectStdout(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.RunLine("echo hello 1> /tmp/out.txt"))

	assert.Equal(t, "hello\n", ts.readFile(t, "/tmp/out.txt"))
	assert.Empty(t, ts.stdout.String())
	assert.Empty(t, ts.stderr.String())
}

func TestShell_RunLine_redirectAppend(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.RunLine("echo one > /tmp/out.txt"))
	require.NoError(t, ts.RunLine("echo two >> /tmp/out.txt"))
	require.NoError(t, ts.RunLine("echo three 1>> /tmp/out.txt"))

	assert.Equal(t, "one\ntwo\nthree\n", ts.readFile(t, "/tmp/out.txt"))
}

func TestShell_RunLine_redirectStderr(t *testing.T) {
	ts := newTestShell(t)

	err := ts.RunLine("cd /nope 2> /tmp/logs/err.txt")

	assert.Error(t, err)
	assert.Equal(t, "cd: /nope: No such file or directory\n", ts.readFile(t, "/tmp/logs/err.txt"))
	assert.Empty(t, ts.stderr.String())
	assert.Equal(t, StatusFailure, ts.LastStatus)
}

func TestShell_RunLine_targetCreatedForUnknownCommand(t *testing.T) {
	ts := newTestShell(t)

	err := ts.RunLine("nonexistent_cmd_x > /tmp/a/b.txt")

	var notFound *CommandNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "", ts.readFile(t, "/tmp/a/b.txt"))
	assert.Equal(t, "nonexistent_cmd_x: command not found\n", ts.stderr.String())
	assert.Equal(t, StatusNotFound, ts.LastStatus)
	assert.Equal(t, []string{"run_command", "unknown_command"}, ts.events(t))
}

func TestShell_RunLine_redirectionError(t *testing.T) {
	memOS := vostest.NewMemOS()
	ts := newTestShellWithOS(t, memOS)
	ts.VirtualOS = &readOnlyOS{MemOS: memOS}

	err := ts.RunLine("echo hi > /tmp/out.txt")

	var redirErr *RedirectionError
	require.ErrorAs(t, err, &redirErr)
	assert.Empty(t, ts.stdout.String())
	assert.True(t, strings.HasPrefix(ts.stderr.String(), "/tmp/out.txt: "))
	assert.Equal(t, []string{"shell_error"}, ts.events(t))
}

func TestShell_RunLine_type(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.RunLine("type cd"))
	require.NoError(t, ts.RunLine("type nonexistent_cmd_x"))

	assert.Equal(t, "cd is a shell builtin\nnonexistent_cmd_x: not found\n", ts.stdout.String())
}

func TestShell_RunLine_history(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.RunLine("pwd"))
	require.NoError(t, ts.RunLine("  cd /  "))
	require.NoError(t, ts.RunLine(""))
	require.NoError(t, ts.RunLine("history 2"))

	assert.Equal(t, "/\n    2  cd /\n    3  history 2\n", ts.stdout.String())
	assert.Equal(t, []string{"pwd", "cd /", "history 2"}, ts.History().Entries())
}

func TestShell_RunLine_cdThenPwd(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.RunLine("cd /tmp"))
	require.NoError(t, ts.RunLine("pwd"))
	require.NoError(t, ts.RunLine("cd ~"))
	require.NoError(t, ts.RunLine("pwd"))

	assert.Equal(t, "/tmp\n/root\n", ts.stdout.String())
}

func TestShell_RunLine_exit(t *testing.T) {
	ts := newTestShell(t)

	assert.ErrorIs(t, ts.RunLine("exit 0"), ErrExit)
	assert.Empty(t, ts.stderr.String())

	err := ts.RunLine("exit 1")
	var notFound *CommandNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "exit: command not found\n", ts.stderr.String())
}

func TestShell_RunLine_parseError(t *testing.T) {
	ts := newTestShell(t)

	err := ts.RunLine(`echo "unclosed`)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, ts.stderr.String(), "syntax error")
	assert.Empty(t, ts.stdout.String())
	assert.Equal(t, StatusFailure, ts.LastStatus)
	assert.Equal(t, []string{`echo "unclosed`}, ts.History().Entries())
}

func TestShell_RunLine_builtinPipeline(t *testing.T) {
	ts := newTestShell(t)

	require.NoError(t, ts.RunLine("echo a | echo b > /tmp/out.txt"))

	assert.Equal(t, "b\n", ts.readFile(t, "/tmp/out.txt"))
	assert.Empty(t, ts.stdout.String())
	assert.Equal(t, []string{"run_command"}, ts.events(t))
}

func TestShell_RunLine_pipelineUnknownCommand(t *testing.T) {
	ts := newTestShell(t)

	err := ts.RunLine("echo a | nonexistent_cmd_x")

	var notFound *CommandNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonexistent_cmd_x: command not found\n", ts.stderr.String())
}

func TestShell_HistoryFile(t *testing.T) {
	t.Run("append-to-existing", func(t *testing.T) {
		memOS := vostest.NewMemOS()
		require.NoError(t, memOS.Setenv("HISTFILE", "/root/.pipesh_history"))
		require.NoError(t, afero.WriteFile(memOS.Fs(), "/root/.pipesh_history", []byte("old1\nold2\n"), 0600))
		ts := newTestShellWithOS(t, memOS)

		require.NoError(t, ts.LoadHistory())
		assert.Equal(t, []string{"old1", "old2"}, ts.History().Entries())

		require.NoError(t, ts.RunLine("pwd"))
		require.NoError(t, ts.Close())

		assert.Equal(t, "old1\nold2\npwd\n", ts.readFile(t, "/root/.pipesh_history"))
		assert.Contains(t, ts.events(t), "history_flush")
	})

	t.Run("write-when-missing", func(t *testing.T) {
		memOS := vostest.NewMemOS()
		require.NoError(t, memOS.Setenv("HISTFILE", "/root/.pipesh_history"))
		ts := newTestShellWithOS(t, memOS)

		require.NoError(t, ts.LoadHistory())
		require.NoError(t, ts.RunLine("pwd"))
		require.NoError(t, ts.RunLine("echo hi"))
		require.NoError(t, ts.Close())

		assert.Equal(t, "pwd\necho hi\n", ts.readFile(t, "/root/.pipesh_history"))
	})

	t.Run("after-explicit-append", func(t *testing.T) {
		memOS := vostest.NewMemOS()
		require.NoError(t, memOS.Setenv("HISTFILE", "/root/.pipesh_history"))
		ts := newTestShellWithOS(t, memOS)

		require.NoError(t, ts.LoadHistory())
		require.NoError(t, ts.RunLine("pwd"))
		require.NoError(t, ts.RunLine("history -a /root/.pipesh_history"))
		require.NoError(t, ts.RunLine("echo hi"))
		require.NoError(t, ts.Close())

		assert.Equal(t, "pwd\nhistory -a /root/.pipesh_history\necho hi\n", ts.readFile(t, "/root/.pipesh_history"))
	})

	t.Run("no-history-file", func(t *testing.T) {
		ts := newTestShell(t)

		require.NoError(t, ts.LoadHistory())
		require.NoError(t, ts.RunLine("pwd"))
		require.NoError(t, ts.Close())

		assert.NotContains(t, ts.events(t), "history_flush")
	})

	t.Run("flush-error", func(t *testing.T) {
		memOS := vostest.NewMemOS()
		require.NoError(t, memOS.Setenv("HISTFILE", "/root/.pipesh_history"))
		ts := newTestShellWithOS(t, memOS)
		require.NoError(t, ts.LoadHistory())
		require.NoError(t, ts.RunLine("pwd"))

		// Swap in a read-only filesystem for the flush.
		ts.Shell.history = historyOn(afero.NewReadOnlyFs(memOS.Fs()), ts.History().Entries())

		err := ts.Close()

		var histErr *HistoryError
		require.ErrorAs(t, err, &histErr)
		assert.Equal(t, "/root/.pipesh_history", histErr.Path)
		assert.True(t, strings.HasPrefix(ts.stderr.String(), "history: /root/.pipesh_history: "))
	})
}

func TestShell_historyReadLoaded(t *testing.T) {
	ts := newTestShell(t)
	require.NoError(t, afero.WriteFile(ts.memOS.Fs(), "/tmp/hist", []byte("echo a\n\n  echo b  \n"), 0600))

	require.NoError(t, ts.RunLine("history -r /tmp/hist"))
	require.NoError(t, ts.RunLine("history"))

	assert.Equal(t, "    1  history -r /tmp/hist\n    2  echo a\n    3  echo b\n    4  history\n", ts.stdout.String())
}
