package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/metrics"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/LadybugDB/bugscope/internal/value"
)

const defaultFailureMessage = "Query failed"

// Query is one query of a batch, with the message prefixed to its failure.
type Query struct {
	Text           string
	FailureMessage string
}

// Resolver maps a database id to its file. *registry.Registry implements it.
type Resolver interface {
	Resolve(ctx context.Context, id int) (registry.DatabaseInfo, error)
}

// Executor runs queries with a fresh handle and connection per call.
type Executor struct {
	resolver Resolver
	engine   engine.Engine
	opts     engine.Options
	metrics  *metrics.Metrics
}

// New creates an Executor. m may be nil.
func New(resolver Resolver, eng engine.Engine, opts engine.Options, m *metrics.Metrics) *Executor {
	return &Executor{
		resolver: resolver,
		engine:   eng,
		opts:     opts,
		metrics:  m,
	}
}

// Run executes query against the database with the given id and returns all
// of its rows.
func (e *Executor) Run(ctx context.Context, databaseID int, query string) ([]value.Row, error) {
	results, err := e.RunBatch(ctx, databaseID, Query{Text: query})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// RunBatch executes queries sequentially on one handle and connection. It
// stops at the first failure, which is reported with that query's
// FailureMessage.
func (e *Executor) RunBatch(ctx context.Context, databaseID int, queries ...Query) (results [][]value.Row, err error) {
	db, err := e.resolver.Resolve(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("database_id", databaseID, "path", db.Path)
	start := time.Now()
	defer func() {
		e.metrics.ObserveQuery(err, time.Since(start))
		if err != nil {
			logger.Debug("Query execution failed.", "error", err, "duration", time.Since(start))
		}
	}()

	handle, err := e.engine.Open(db.Path, e.opts)
	if err != nil {
		return nil, apperror.Engine(apperror.StageOpen, "Failed to open database", err)
	}
	defer closeLogged(logger, "database", handle)

	conn, err := handle.Connect()
	if err != nil {
		return nil, apperror.Engine(apperror.StageConnect, "Failed to create connection", err)
	}
	defer closeLogged(logger, "connection", conn)

	results = make([][]value.Row, 0, len(queries))
	for _, q := range queries {
		rows, err := execute(conn, q.Text)
		if err != nil {
			msg := q.FailureMessage
			if msg == "" {
				msg = defaultFailureMessage
			}
			return nil, apperror.Engine(apperror.StageQuery, msg, err)
		}
		logger.Debug("Query executed.", "query", q.Text, "rows", len(rows))
		results = append(results, rows)
	}
	return results, nil
}

// execute runs one query and drains it. A failed row fetch fails the whole
// query.
func execute(conn engine.Conn, query string) ([]value.Row, error) {
	res, err := conn.Execute(query)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	rows := []value.Row{}
	for {
		row, err := res.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

type closer interface {
	Close() error
}

func closeLogged(logger *slog.Logger, what string, c closer) {
	if err := c.Close(); err != nil {
		logger.Warn("Failed to close engine handle.", "handle", what, "error", err)
	}
}
