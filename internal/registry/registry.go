package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/fsutil"
)

// DefaultExtension is the file extension of embedded graph databases.
const DefaultExtension = ".lbdb"

// DatabaseInfo describes one database as seen by a single listing.
type DatabaseInfo struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	RelativePath string `json:"relativePath" yaml:"relativePath"`
}

// Registry merges scanned and explicitly registered databases.
type Registry struct {
	root      string
	extension string

	mu         sync.RWMutex
	registered []DatabaseInfo
}

// New creates a Registry scanning root for files with the given extension.
// An empty extension selects DefaultExtension.
func New(root, extension string) (*Registry, error) {
	if root == "" {
		return nil, errors.New("registry root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve registry root %q: %w", root, err)
	}
	if extension == "" {
		extension = DefaultExtension
	}
	if extension[0] != '.' {
		extension = "." + extension
	}
	return &Registry{root: abs, extension: extension}, nil
}

// Root returns the absolute scan root.
func (r *Registry) Root() string {
	return r.root
}

// Extension returns the recognized database file extension, with its dot.
func (r *Registry) Extension() string {
	return r.extension
}

// List returns scanned databases followed by registered ones, with ids equal
// to list positions.
func (r *Registry) List(ctx context.Context) []DatabaseInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(ctx)
}

// Register validates path and appends it to the registered set. The returned
// DatabaseInfo carries the id it has in the listing taken under the same lock.
func (r *Registry) Register(ctx context.Context, path string) (DatabaseInfo, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		return DatabaseInfo{}, apperror.Validation("filePath is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return DatabaseInfo{}, apperror.Validation(fmt.Sprintf("invalid path %q", path))
	}
	if _, err := os.Stat(abs); err != nil {
		logger.Debug("Rejected registration of missing file.", "path", abs, "error", err)
		return DatabaseInfo{}, apperror.Validation("File not found")
	}
	if filepath.Ext(abs) != r.extension {
		return DatabaseInfo{}, apperror.Validation(fmt.Sprintf("Only %s files are supported", r.extension))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, db := range r.registered {
		if db.Path == abs {
			return DatabaseInfo{}, apperror.Validation("Database already added")
		}
	}

	r.registered = append(r.registered, DatabaseInfo{
		Name:         fsutil.Stem(abs),
		Path:         abs,
		RelativePath: abs,
	})
	all := r.listLocked(ctx)
	info := all[len(all)-1]
	logger.Info("Database registered.", "id", info.ID, "path", info.Path)
	return info, nil
}

// Resolve returns the database with the given id in the current listing.
func (r *Registry) Resolve(ctx context.Context, id int) (DatabaseInfo, error) {
	all := r.List(ctx)
	if id < 0 || id >= len(all) {
		return DatabaseInfo{}, apperror.NotFound("Database not found")
	}
	return all[id], nil
}

// Registered returns how many databases were registered explicitly.
func (r *Registry) Registered() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registered)
}

func (r *Registry) listLocked(ctx context.Context) []DatabaseInfo {
	all := r.scan(ctx)
	all = append(all, r.registered...)
	for i := range all {
		all[i].ID = i
	}
	return all
}

func (r *Registry) scan(ctx context.Context) []DatabaseInfo {
	files, err := fsutil.FindFilesByExtension(r.root, r.extension)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Skipped unreadable entries while scanning.", "root", r.root, "error", err)
	}

	dbs := make([]DatabaseInfo, 0, len(files)+len(r.registered))
	for _, path := range files {
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			rel = path
		}
		dbs = append(dbs, DatabaseInfo{
			Name:         fsutil.Stem(path),
			Path:         path,
			RelativePath: rel,
		})
	}
	return dbs
}
