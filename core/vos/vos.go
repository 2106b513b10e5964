package vos

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	EnvHome     = "HOME"
	EnvPath     = "PATH"
	EnvHistFile = "HISTFILE"
)

// VFS is the filesystem layer of the virtual OS.
type VFS = afero.Fs

// VProc holds per-process state.
type VProc interface {
	// Getwd returns the current working directory.
	Getwd() (string, error)
	// Chdir changes the current working directory.
	Chdir(dir string) error
}

// VOS provides the slice of the operating system the shell reads from and
// mutates. The search path, working directory and filesystem are always
// looked up through it, never cached.
type VOS interface {
	VEnv
	VProc

	// Fs returns the filesystem used for path lookups, redirection targets and
	// history persistence.
	Fs() VFS
}

// SearchPath returns the directories named by PATH, in order.
func SearchPath(env VEnv) []string {
	path := env.Getenv(EnvPath)
	if path == "" {
		return nil
	}
	return filepath.SplitList(path)
}

// ExpandTilde replaces every "~" in p with the user's home directory.
func ExpandTilde(env VEnv, p string) string {
	if !strings.Contains(p, "~") {
		return p
	}
	home, _ := env.UserHomeDir()
	return strings.ReplaceAll(p, "~", home)
}

// HostOS is the VOS backed by the real operating system.
type HostOS struct {
	HostEnv

	fs VFS
}

var _ VOS = (*HostOS)(nil)

// NewHostOS creates a VOS over the real environment, working directory and
// filesystem.
func NewHostOS() *HostOS {
	return &HostOS{fs: afero.NewOsFs()}
}

// Getwd implements VProc.Getwd.
func (h *HostOS) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir implements VProc.Chdir.
func (h *HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// Fs implements VOS.Fs.
func (h *HostOS) Fs() VFS {
	return h.fs
}
