package vostest

import (
	"io/fs"
	"path"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/pipesh/core/vos"
	"github.com/spf13/afero"
)

// MemOS is a deterministic VOS backed by memory.
type MemOS struct {
	*vos.MapEnv

	fs  afero.Fs
	dir string
}

var _ vos.VOS = (*MemOS)(nil)

// NewMemOS creates an in-memory OS with HOME=/root, PATH=/bin:/usr/bin and
// the working directory set to /.
func NewMemOS() *MemOS {
	memFs := afero.NewMemMapFs()
	for _, dir := range []string{"/root", "/bin", "/usr/bin", "/tmp"} {
		// MemMapFs.MkdirAll never fails.
		_ = memFs.MkdirAll(dir, 0755)
	}

	return &MemOS{
		MapEnv: vos.NewMapEnvFromEnvList([]string{
			"HOME=/root",
			"PATH=/bin:/usr/bin",
		}),
		fs:  memFs,
		dir: "/",
	}
}

// Getwd implements vos.VProc.Getwd.
func (m *MemOS) Getwd() (string, error) {
	return m.dir, nil
}

// Chdir implements vos.VProc.Chdir.
func (m *MemOS) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Join(m.dir, dir)
	}
	dir = path.Clean(dir)

	stat, err := m.fs.Stat(dir)
	switch {
	case err != nil:
		return &fs.PathError{Op: "chdir", Path: dir, Err: fs.ErrNotExist}
	case !stat.IsDir():
		return &fs.PathError{Op: "chdir", Path: dir, Err: fs.ErrInvalid}
	default:
		m.dir = dir
		return nil
	}
}

// Fs implements vos.VOS.Fs.
func (m *MemOS) Fs() vos.VFS {
	return m.fs
}

// AddExecutable creates an executable file at the given path.
func AddExecutable(t testing.TB, vfs vos.VFS, name string) {
	t.Helper()
	writeFile(t, vfs, name, 0755)
}

// AddFile creates a non-executable file at the given path.
func AddFile(t testing.TB, vfs vos.VFS, name string) {
	t.Helper()
	writeFile(t, vfs, name, 0644)
}

func writeFile(t testing.TB, vfs vos.VFS, name string, perm fs.FileMode) {
	t.Helper()
	if err := vfs.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(vfs, name, []byte("#!/bin/sh\n"), perm); err != nil {
		t.Fatal(err)
	}
	// WriteFile doesn't change the mode of existing files.
	if err := vfs.Chmod(name, perm); err != nil {
		t.Fatal(err)
	}
}
