package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	EntryDirectory = "directory"
	EntryFile      = "file"
)

// DirEntry is one visible entry of a directory listing.
type DirEntry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Type string `json:"type" yaml:"type"`
}

// DirectoryListing is the browsable view of one directory.
type DirectoryListing struct {
	Current     string     `json:"current" yaml:"current"`
	Parent      string     `json:"parent" yaml:"parent"`
	Directories []DirEntry `json:"directories" yaml:"directories"`
	Files       []DirEntry `json:"files" yaml:"files"`
}

// ListDirectory reads dir and returns its subdirectories and the files whose
// name ends with extension. Dotfiles are hidden, subdirectories are listed
// unconditionally (symlinks are followed), and extension is stripped from
// file display names. Both lists are sorted by name.
func ListDirectory(dir, extension string) (*DirectoryListing, error) {
	dir = filepath.Clean(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	listing := &DirectoryListing{
		Current:     dir,
		Directories: []DirEntry{},
		Files:       []DirEntry{},
	}
	if parent := filepath.Dir(dir); parent != dir {
		listing.Parent = parent
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entryPath := filepath.Join(dir, name)

		if isDir(entry, entryPath) {
			listing.Directories = append(listing.Directories, DirEntry{
				Name: name,
				Path: entryPath,
				Type: EntryDirectory,
			})
		} else if strings.HasSuffix(name, extension) {
			listing.Files = append(listing.Files, DirEntry{
				Name: strings.TrimSuffix(name, extension),
				Path: entryPath,
				Type: EntryFile,
			})
		}
	}

	sort.Slice(listing.Directories, func(i, j int) bool { return listing.Directories[i].Name < listing.Directories[j].Name })
	sort.Slice(listing.Files, func(i, j int) bool { return listing.Files[i].Name < listing.Files[j].Name })

	return listing, nil
}

func isDir(entry os.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
