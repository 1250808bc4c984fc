package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/memengine"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/LadybugDB/bugscope/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Executor, *memengine.Engine, string) {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "companies.lbdb")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	reg, err := registry.New(root, "")
	require.NoError(t, err)
	eng := memengine.New()
	return New(reg, eng, engine.Options{ReadOnly: true}, nil), eng, path
}

func TestRun_ReturnsAllRowsAndClosesEverything(t *testing.T) {
	ctx := context.Background()
	exec, eng, path := setup(t)
	eng.Dataset(path).Script("MATCH (n) RETURN n.name",
		value.Row{value.String("Acme")},
		value.Row{value.String("Globex")},
	)

	rows, err := exec.Run(ctx, 0, "MATCH (n) RETURN n.name")
	require.NoError(t, err)
	assert.Equal(t, []value.Row{{value.String("Acme")}, {value.String("Globex")}}, rows)

	assert.Zero(t, eng.Live())
	assert.Equal(t, []string{
		memengine.OpOpen,
		memengine.OpConnect,
		memengine.OpExecute,
		memengine.OpCloseResult,
		memengine.OpCloseConn,
		memengine.OpCloseDatabase,
	}, eng.Ops())
	assert.True(t, eng.Calls()[0].Options.ReadOnly)
}

func TestRun_EmptyResultIsNotNil(t *testing.T) {
	exec, eng, path := setup(t)
	eng.Dataset(path).Script("MATCH (n:Nothing) RETURN n")

	rows, err := exec.Run(context.Background(), 0, "MATCH (n:Nothing) RETURN n")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRun_UnknownDatabase(t *testing.T) {
	exec, eng, _ := setup(t)

	_, err := exec.Run(context.Background(), 5, "RETURN 1")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, eng.Calls(), "engine must not be touched")
}

func TestRun_FailureStages(t *testing.T) {
	cause := errors.New("IO exception: cannot read file")

	testCases := []struct {
		name    string
		arrange func(eng *memengine.Engine, path string)
		stage   apperror.Stage
		message string
	}{
		{
			name:    "open",
			arrange: func(eng *memengine.Engine, path string) { eng.FailOpen(path, cause) },
			stage:   apperror.StageOpen,
			message: "Failed to open database: IO exception: cannot read file",
		},
		{
			name:    "connect",
			arrange: func(eng *memengine.Engine, path string) { eng.FailConnect(path, cause) },
			stage:   apperror.StageConnect,
			message: "Failed to create connection: IO exception: cannot read file",
		},
		{
			name:    "execute",
			arrange: func(eng *memengine.Engine, path string) { eng.Dataset(path).FailQuery("Q", cause) },
			stage:   apperror.StageQuery,
			message: "Query failed: IO exception: cannot read file",
		},
		{
			name: "row fetch",
			arrange: func(eng *memengine.Engine, path string) {
				eng.Dataset(path).Script("Q", value.Row{value.Int64(1)}, value.Row{value.Int64(2)}).FailAfter("Q", 1, cause)
			},
			stage:   apperror.StageQuery,
			message: "Query failed: IO exception: cannot read file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exec, eng, path := setup(t)
			tc.arrange(eng, path)

			rows, err := exec.Run(context.Background(), 0, "Q")
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.Equal(t, apperror.KindEngine, apperror.KindOf(err))
			assert.Equal(t, tc.stage, apperror.StageOf(err))
			assert.EqualError(t, err, tc.message)
			assert.ErrorIs(t, err, cause)
			assert.Zero(t, eng.Live(), "every acquired handle must be closed")
		})
	}
}

func TestRunBatch_SharesOneConnection(t *testing.T) {
	exec, eng, path := setup(t)
	eng.Dataset(path).
		Script("NODES", value.Row{value.Int64(1)}).
		Script("LINKS", value.Row{value.Int64(2)}, value.Row{value.Int64(3)})

	results, err := exec.RunBatch(context.Background(), 0,
		Query{Text: "NODES", FailureMessage: "Node query failed"},
		Query{Text: "LINKS", FailureMessage: "Link query failed"},
	)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Len(t, results[0], 1)
	assert.Len(t, results[1], 2)

	opens := 0
	for _, op := range eng.Ops() {
		if op == memengine.OpOpen || op == memengine.OpConnect {
			opens++
		}
	}
	assert.Equal(t, 2, opens)
	assert.Zero(t, eng.Live())
}

func TestRunBatch_FailurePrefixPerQuery(t *testing.T) {
	exec, eng, path := setup(t)
	eng.Dataset(path).
		Script("NODES", value.Row{value.Int64(1)}).
		FailQuery("LINKS", errors.New("Binder exception: table r does not exist"))

	_, err := exec.RunBatch(context.Background(), 0,
		Query{Text: "NODES", FailureMessage: "Node query failed"},
		Query{Text: "LINKS", FailureMessage: "Link query failed"},
	)
	require.Error(t, err)
	assert.EqualError(t, err, "Link query failed: Binder exception: table r does not exist")
	assert.Zero(t, eng.Live())
}

func TestRun_ConcurrentCallsUseIndependentHandles(t *testing.T) {
	exec, eng, path := setup(t)
	eng.Dataset(path).Script("RETURN 1", value.Row{value.Int64(1)})

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			rows, err := exec.Run(context.Background(), 0, "RETURN 1")
			assert.NoError(t, err)
			assert.Len(t, rows, 1)
		}()
	}
	wg.Wait()

	opens := 0
	for _, op := range eng.Ops() {
		if op == memengine.OpOpen {
			opens++
		}
	}
	assert.Equal(t, n, opens)
	assert.Zero(t, eng.Live())
}
