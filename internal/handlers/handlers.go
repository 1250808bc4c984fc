package handlers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/executor"
	"github.com/LadybugDB/bugscope/internal/fsutil"
	"github.com/LadybugDB/bugscope/internal/graph"
	"github.com/LadybugDB/bugscope/internal/metrics"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/LadybugDB/bugscope/internal/value"
)

// DefaultOverviewLimit caps each overview query when no limit is configured.
const DefaultOverviewLimit = 500

// Operation names, shared with the socket.io event names.
const (
	OpListDatabases    = "listDatabases"
	OpRegisterDatabase = "registerDatabase"
	OpListDirectory    = "listDirectory"
	OpOverviewGraph    = "getOverviewGraph"
	OpRunQuery         = "runQuery"
)

// Graph modes recorded in metrics.
const (
	ModeOverview = "overview"
	ModeAdHoc    = "adhoc"
)

// Databases is the registry surface the Service needs.
type Databases interface {
	List(ctx context.Context) []registry.DatabaseInfo
	Register(ctx context.Context, path string) (registry.DatabaseInfo, error)
	Root() string
	Extension() string
}

// Runner executes queries by database id.
type Runner interface {
	Run(ctx context.Context, databaseID int, query string) ([]value.Row, error)
	RunBatch(ctx context.Context, databaseID int, queries ...executor.Query) ([][]value.Row, error)
}

// Service implements the frontend operations.
type Service struct {
	databases     Databases
	runner        Runner
	metrics       *metrics.Metrics
	overviewLimit int
}

// New creates a Service. A non-positive overviewLimit selects
// DefaultOverviewLimit; m may be nil.
func New(databases Databases, runner Runner, overviewLimit int, m *metrics.Metrics) *Service {
	if overviewLimit <= 0 {
		overviewLimit = DefaultOverviewLimit
	}
	return &Service{
		databases:     databases,
		runner:        runner,
		metrics:       m,
		overviewLimit: overviewLimit,
	}
}

// OverviewLimit returns the row cap applied to each overview query.
func (s *Service) OverviewLimit() int {
	return s.overviewLimit
}

// ListDatabases returns the current merged listing.
func (s *Service) ListDatabases(ctx context.Context) []registry.DatabaseInfo {
	dbs := s.databases.List(ctx)
	ctxlog.FromContext(ctx).Debug("Listed databases.", "count", len(dbs))
	s.metrics.ObserveOperation(OpListDatabases, nil)
	return dbs
}

// RegisterDatabase adds the file at path to the registry.
func (s *Service) RegisterDatabase(ctx context.Context, path string) (info registry.DatabaseInfo, err error) {
	defer s.observe(ctx, OpRegisterDatabase, &err)
	return s.databases.Register(ctx, path)
}

// ListDirectory lists path for the file browser. An empty path lists the
// registry root, and relative paths are resolved against it.
func (s *Service) ListDirectory(ctx context.Context, path string) (listing *fsutil.DirectoryListing, err error) {
	defer s.observe(ctx, OpListDirectory, &err)

	dir := s.databases.Root()
	if path != "" {
		if filepath.IsAbs(path) {
			dir = path
		} else {
			dir = filepath.Join(dir, path)
		}
	}

	listing, err = fsutil.ListDirectory(dir, s.databases.Extension())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NotFound(fmt.Sprintf("Directory not found: %s", filepath.Clean(dir)))
		}
		return nil, apperror.IO("Failed to read directory", err)
	}
	ctxlog.FromContext(ctx).Debug("Listed directory.",
		"dir", listing.Current,
		"directories", len(listing.Directories),
		"files", len(listing.Files),
	)
	return listing, nil
}

// OverviewGraph returns up to the configured number of nodes of the database
// and the relationships among them.
func (s *Service) OverviewGraph(ctx context.Context, databaseID int) (data graph.Data, err error) {
	defer s.observe(ctx, OpOverviewGraph, &err)

	nodesQuery, linksQuery := graph.OverviewQueries(s.overviewLimit)
	results, err := s.runner.RunBatch(ctx, databaseID,
		executor.Query{Text: nodesQuery, FailureMessage: "Node query failed"},
		executor.Query{Text: linksQuery, FailureMessage: "Link query failed"},
	)
	if err != nil {
		return graph.Data{}, err
	}

	data = graph.Overview(results[0], results[1])
	s.recordGraph(ctx, ModeOverview, databaseID, data)
	return data, nil
}

// RunQuery executes query and projects every node and relationship it
// returns.
func (s *Service) RunQuery(ctx context.Context, databaseID int, query string) (data graph.Data, err error) {
	defer s.observe(ctx, OpRunQuery, &err)

	if strings.TrimSpace(query) == "" {
		return graph.Data{}, apperror.Validation("query is required")
	}
	rows, err := s.runner.Run(ctx, databaseID, query)
	if err != nil {
		return graph.Data{}, err
	}

	data = graph.Project(rows)
	s.recordGraph(ctx, ModeAdHoc, databaseID, data)
	return data, nil
}

func (s *Service) recordGraph(ctx context.Context, mode string, databaseID int, data graph.Data) {
	s.metrics.ObserveGraph(mode, len(data.Nodes), len(data.Links))
	ctxlog.FromContext(ctx).Debug("Projected graph.",
		"mode", mode,
		"database_id", databaseID,
		"nodes", len(data.Nodes),
		"links", len(data.Links),
	)
}

// observe converts a stray non-apperror failure into an internal error and
// records the outcome.
func (s *Service) observe(ctx context.Context, op string, errp *error) {
	if err := *errp; err != nil {
		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			*errp = &apperror.Error{Kind: apperror.KindInternal, Message: "Internal error", Err: err}
		}
		ctxlog.FromContext(ctx).Debug("Operation failed.", "operation", op, "error", *errp)
	}
	s.metrics.ObserveOperation(op, *errp)
}
