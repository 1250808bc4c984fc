package shell

import (
	"context"

	"github.com/LadybugDB/bugscope/internal/fsutil"
	"github.com/LadybugDB/bugscope/internal/graph"
	"github.com/LadybugDB/bugscope/internal/handlers"
	"github.com/LadybugDB/bugscope/internal/registry"
)

// Backend is the operation surface the shell drives. *rpcclient.Client
// implements it directly; Local adapts the in-process service.
type Backend interface {
	ListDatabases(ctx context.Context) ([]registry.DatabaseInfo, error)
	RegisterDatabase(ctx context.Context, path string) (registry.DatabaseInfo, error)
	ListDirectory(ctx context.Context, path string) (*fsutil.DirectoryListing, error)
	OverviewGraph(ctx context.Context, databaseID int) (graph.Data, error)
	RunQuery(ctx context.Context, databaseID int, query string) (graph.Data, error)
}

type localBackend struct {
	*handlers.Service
}

// Local returns a Backend over an in-process service.
func Local(svc *handlers.Service) Backend {
	return localBackend{Service: svc}
}

func (b localBackend) ListDatabases(ctx context.Context) ([]registry.DatabaseInfo, error) {
	return b.Service.ListDatabases(ctx), nil
}
