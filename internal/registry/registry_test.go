package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	reg, err := New(root, "")
	require.NoError(t, err)
	return reg, root
}

func TestNew(t *testing.T) {
	_, err := New("", ".lbdb")
	require.Error(t, err)

	reg, err := New(".", "lbdb")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(reg.Root()))
	assert.Equal(t, ".lbdb", reg.Extension())
}

func TestList_ScannedThenRegistered(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	touch(t, filepath.Join(root, "companies.lbdb"))
	touch(t, filepath.Join(root, "nested", "people.lbdb"))
	touch(t, filepath.Join(root, "ignored.txt"))

	external := touch(t, filepath.Join(t.TempDir(), "external.lbdb"))
	_, err := reg.Register(ctx, external)
	require.NoError(t, err)

	all := reg.List(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, DatabaseInfo{ID: 0, Name: "companies", Path: filepath.Join(root, "companies.lbdb"), RelativePath: "companies.lbdb"}, all[0])
	assert.Equal(t, DatabaseInfo{ID: 1, Name: "people", Path: filepath.Join(root, "nested", "people.lbdb"), RelativePath: filepath.Join("nested", "people.lbdb")}, all[1])
	assert.Equal(t, DatabaseInfo{ID: 2, Name: "external", Path: external, RelativePath: external}, all[2])

	for i, db := range all {
		assert.Equal(t, i, db.ID, "ids must equal list positions")
	}
}

func TestList_IdsShiftWhenFilesAppear(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	external := touch(t, filepath.Join(t.TempDir(), "external.lbdb"))
	info, err := reg.Register(ctx, external)
	require.NoError(t, err)
	assert.Equal(t, 0, info.ID)

	touch(t, filepath.Join(root, "late.lbdb"))

	all := reg.List(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "late", all[0].Name)
	assert.Equal(t, external, all[1].Path)
	assert.Equal(t, 1, all[1].ID)
}

func TestList_MissingRootIsEmpty(t *testing.T) {
	reg, err := New(filepath.Join(t.TempDir(), "gone"), "")
	require.NoError(t, err)
	assert.Empty(t, reg.List(context.Background()))
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	wrongExt := touch(t, filepath.Join(dir, "data.csv"))

	testCases := []struct {
		name    string
		path    string
		message string
	}{
		{name: "empty path", path: "", message: "filePath is required"},
		{name: "missing file", path: filepath.Join(dir, "missing.lbdb"), message: "File not found"},
		{name: "wrong extension", path: wrongExt, message: "Only .lbdb files are supported"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			before := reg.List(ctx)

			_, err := reg.Register(ctx, tc.path)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.EqualError(t, err, tc.message)

			assert.Equal(t, before, reg.List(ctx), "registry must be unchanged")
			assert.Zero(t, reg.Registered())
		})
	}
}

func TestRegister_DuplicateSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	path := touch(t, filepath.Join(t.TempDir(), "twice.lbdb"))

	first, err := reg.Register(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "twice", first.Name)

	_, err = reg.Register(ctx, path)
	require.Error(t, err)
	assert.EqualError(t, err, "Database already added")

	assert.Len(t, reg.List(ctx), 1)
	assert.Equal(t, 1, reg.Registered())
}

func TestRegister_RelativePathResolvesAgainstWorkingDir(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "rel.lbdb"))
	t.Chdir(dir)

	info, err := reg.Register(ctx, "rel.lbdb")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(info.Path))
	assert.Equal(t, "rel", info.Name)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	touch(t, filepath.Join(root, "only.lbdb"))

	db, err := reg.Resolve(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "only", db.Name)

	for _, id := range []int{-1, 1, 99} {
		_, err := reg.Resolve(ctx, id)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.EqualError(t, err, "Database not found")
	}
}

// TestRegister_Concurrent verifies that concurrent registrations are
// serialized and that every returned id is exact.
func TestRegister_Concurrent(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	touch(t, filepath.Join(root, "scanned.lbdb"))
	dir := t.TempDir()

	const n = 32
	var wg sync.WaitGroup
	results := make([]DatabaseInfo, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			path := touch(t, filepath.Join(dir, fmt.Sprintf("db%02d.lbdb", i)))
			info, err := reg.Register(ctx, path)
			if err != nil {
				t.Errorf("register %d: %v", i, err)
				return
			}
			results[i] = info
			_ = reg.List(ctx)
		}(i)
	}
	wg.Wait()

	all := reg.List(ctx)
	require.Len(t, all, n+1)
	for _, info := range results {
		assert.Equal(t, all[info.ID], info)
	}
}
