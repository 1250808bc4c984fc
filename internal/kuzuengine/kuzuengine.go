package kuzuengine

import (
	"fmt"
	"io"

	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/value"
	"github.com/kuzudb/go-kuzu"
)

// Engine opens database files with go-kuzu.
type Engine struct{}

// New returns the Kuzu-backed engine.
func New() engine.Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "kuzu"
}

// Open opens the database file at path. Zero option values keep the driver
// defaults from kuzu.DefaultSystemConfig.
func (e *Engine) Open(path string, opts engine.Options) (engine.Database, error) {
	cfg := kuzu.DefaultSystemConfig()
	cfg.ReadOnly = opts.ReadOnly
	if opts.BufferPoolSize > 0 {
		cfg.BufferPoolSize = opts.BufferPoolSize
	}
	if opts.MaxThreads > 0 {
		cfg.MaxNumThreads = opts.MaxThreads
	}

	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, err
	}
	return &database{db: db}, nil
}

type database struct {
	db *kuzu.Database
}

func (d *database) Connect() (engine.Conn, error) {
	conn, err := kuzu.OpenConnection(d.db)
	if err != nil {
		return nil, err
	}
	return &connection{conn: conn}, nil
}

func (d *database) Close() error {
	d.db.Close()
	return nil
}

type connection struct {
	conn *kuzu.Connection
}

func (c *connection) Execute(query string) (engine.Result, error) {
	res, err := c.conn.Query(query)
	if err != nil {
		return nil, err
	}
	return &result{res: res}, nil
}

func (c *connection) Close() error {
	c.conn.Close()
	return nil
}

type result struct {
	res *kuzu.QueryResult
}

func (r *result) Next() (value.Row, error) {
	if !r.res.HasNext() {
		return nil, io.EOF
	}
	tuple, err := r.res.Next()
	if err != nil {
		return nil, err
	}
	defer tuple.Close()

	cells, err := tuple.GetAsSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}
	row := make(value.Row, len(cells))
	for i, cell := range cells {
		row[i] = Convert(cell)
	}
	return row, nil
}

func (r *result) Close() error {
	r.res.Close()
	return nil
}
