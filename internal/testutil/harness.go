package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/executor"
	"github.com/LadybugDB/bugscope/internal/handlers"
	"github.com/LadybugDB/bugscope/internal/memengine"
	"github.com/LadybugDB/bugscope/internal/metrics"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Logger returns a debug-level logger writing to a SafeBuffer. The captured
// output is dumped to the test log when BUGSCOPE_TEST_LOGS=true.
func Logger(t *testing.T) (*slog.Logger, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("BUGSCOPE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return logger, buf
}

// WriteFiles creates empty files under root, creating parent directories as
// needed, and returns their absolute paths.
func WriteFiles(t *testing.T, root string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
		paths = append(paths, path)
	}
	return paths
}

// Stack is a fully wired service over an in-memory engine.
type Stack struct {
	Ctx      context.Context
	Root     string
	Logs     *SafeBuffer
	Engine   *memengine.Engine
	Registry *registry.Registry
	Metrics  *metrics.Metrics
	Service  *handlers.Service
}

// NewStack wires a registry rooted at a fresh temporary directory holding
// the given database files to the demo engine.
func NewStack(t *testing.T, files ...string) *Stack {
	t.Helper()
	return NewStackWithEngine(t, memengine.Demo(), files...)
}

// NewStackWithEngine is NewStack with a caller-supplied engine.
func NewStackWithEngine(t *testing.T, eng *memengine.Engine, files ...string) *Stack {
	t.Helper()

	root := t.TempDir()
	WriteFiles(t, root, files...)

	logger, logs := Logger(t)
	reg, err := registry.New(root, registry.DefaultExtension)
	require.NoError(t, err)

	m := metrics.New()
	exec := executor.New(reg, eng, engine.Options{ReadOnly: true}, m)

	return &Stack{
		Ctx:      ctxlog.WithLogger(context.Background(), logger),
		Root:     root,
		Logs:     logs,
		Engine:   eng,
		Registry: reg,
		Metrics:  m,
		Service:  handlers.New(reg, exec, handlers.DefaultOverviewLimit, m),
	}
}
