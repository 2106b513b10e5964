package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// isExecutable reports whether info describes a regular file with any execute
// bit set.
func isExecutable(info fs.FileInfo) bool {
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

func findExecutable(vfs VFS, file string) error {
	d, err := vfs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if isExecutable(d) {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(vos VOS, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(vos.Fs(), file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range SearchPath(vos) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(vos.Fs(), path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// ListExecutables returns the names of every executable regular file in the
// search path starting with prefix. Names are deduplicated and sorted.
// Unreadable directories are skipped.
func ListExecutables(vos VOS, prefix string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, dir := range SearchPath(vos) {
		if dir == "" {
			dir = "."
		}
		entries, err := afero.ReadDir(vos.Fs(), dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if seen[name] || !strings.HasPrefix(name, prefix) {
				continue
			}

			// ReadDir uses Lstat, follow links to find the real target.
			info := entry
			if entry.Mode()&fs.ModeSymlink != 0 {
				if info, err = vos.Fs().Stat(filepath.Join(dir, name)); err != nil {
					continue
				}
			}
			if !isExecutable(info) {
				continue
			}

			seen[name] = true
			out = append(out, name)
		}
	}

	sort.Strings(out)
	return out
}
