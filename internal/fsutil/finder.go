// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// HasExtension reports whether name carries extension and a non-empty stem.
// extension includes the leading dot, e.g. ".lbdb".
func HasExtension(name, extension string) bool {
	return len(name) > len(extension) && filepath.Ext(name) == extension
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// FindFilesByExtension recursively searches rootPath for regular files (or
// symlinks to regular files) with the given extension, in lexical order.
//
// The walk never stops early: unreadable entries, including a missing root,
// are skipped and reported together in the returned error while the files
// found so far are still returned.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	var skipped []error
	_ = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped = append(skipped, err)
			if d != nil && d.IsDir() && path != rootPath {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !HasExtension(d.Name(), extension) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				skipped = append(skipped, err)
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, errors.Join(skipped...)
}
