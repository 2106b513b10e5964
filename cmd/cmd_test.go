package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		cfgPath = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuiltinsCmd(t *testing.T) {
	out, err := runRoot(t, "builtins")

	require.NoError(t, err)
	assert.Equal(t, "cd\necho\nexit\nhistory\npwd\ntype\n", out)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	_, err := runRoot(t, "init", "--config", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	_, err = runRoot(t, "init", "--config", dir)
	assert.ErrorContains(t, err, "already exists")
}
