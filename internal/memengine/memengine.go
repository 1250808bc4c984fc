package memengine

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/value"
)

// Recorded operation names.
const (
	OpOpen          = "open"
	OpConnect       = "connect"
	OpExecute       = "execute"
	OpCloseResult   = "result.close"
	OpCloseConn     = "conn.close"
	OpCloseDatabase = "database.close"
)

// Call is one recorded engine call.
type Call struct {
	Op      string
	Path    string
	Query   string
	Options engine.Options
}

// Engine is a scripted engine.Engine. The zero value is not usable; use New.
type Engine struct {
	mu          sync.Mutex
	datasets    map[string]*Dataset
	fallback    *Dataset
	openErrs    map[string]error
	connectErrs map[string]error
	calls       []Call
	live        int
}

// New creates an engine without any scripted data.
func New() *Engine {
	return &Engine{
		datasets:    make(map[string]*Dataset),
		openErrs:    make(map[string]error),
		connectErrs: make(map[string]error),
	}
}

func (e *Engine) Name() string {
	return "memory"
}

// Dataset returns the dataset served for path, creating it on first use.
func (e *Engine) Dataset(path string) *Dataset {
	e.mu.Lock()
	defer e.mu.Unlock()
	ds, ok := e.datasets[path]
	if !ok {
		ds = NewDataset()
		e.datasets[path] = ds
	}
	return ds
}

// SetFallback sets the dataset served for paths without their own dataset.
func (e *Engine) SetFallback(ds *Dataset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fallback = ds
}

// FailOpen makes every Open of path fail with err.
func (e *Engine) FailOpen(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openErrs[path] = err
}

// FailConnect makes every Connect on a handle for path fail with err.
func (e *Engine) FailConnect(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connectErrs[path] = err
}

// Calls returns a copy of the recorded calls in order.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// Ops returns the recorded operation names in order.
func (e *Engine) Ops() []string {
	calls := e.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// Live returns how many handles (databases, connections and results) were
// handed out and not closed yet.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

func (e *Engine) Open(path string, opts engine.Options) (engine.Database, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Op: OpOpen, Path: path, Options: opts})
	if err := e.openErrs[path]; err != nil {
		return nil, err
	}

	ds, ok := e.datasets[path]
	if !ok {
		ds = e.fallback
	}
	if ds == nil {
		ds = NewDataset()
	}
	e.live++
	return &database{engine: e, path: path, dataset: ds}, nil
}

func (e *Engine) record(c Call, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, c)
	e.live += delta
}

type database struct {
	engine  *Engine
	path    string
	dataset *Dataset
	once    sync.Once
}

func (d *database) Connect() (engine.Conn, error) {
	d.engine.mu.Lock()
	err := d.engine.connectErrs[d.path]
	d.engine.mu.Unlock()

	if err != nil {
		d.engine.record(Call{Op: OpConnect, Path: d.path}, 0)
		return nil, err
	}
	d.engine.record(Call{Op: OpConnect, Path: d.path}, 1)
	return &conn{db: d}, nil
}

func (d *database) Close() error {
	d.once.Do(func() { d.engine.record(Call{Op: OpCloseDatabase, Path: d.path}, -1) })
	return nil
}

type conn struct {
	db   *database
	once sync.Once
}

func (c *conn) Execute(query string) (engine.Result, error) {
	s, err := c.db.dataset.lookup(query)
	if err == nil {
		err = s.err
	}
	if err != nil {
		c.db.engine.record(Call{Op: OpExecute, Path: c.db.path, Query: query}, 0)
		return nil, err
	}
	c.db.engine.record(Call{Op: OpExecute, Path: c.db.path, Query: query}, 1)
	return &result{conn: c, query: query, script: s}, nil
}

func (c *conn) Close() error {
	c.once.Do(func() { c.db.engine.record(Call{Op: OpCloseConn, Path: c.db.path}, -1) })
	return nil
}

type result struct {
	conn   *conn
	query  string
	script script
	pos    int
	once   sync.Once
}

func (r *result) Next() (value.Row, error) {
	if r.script.nextErr != nil && r.pos >= r.script.failAfter {
		return nil, r.script.nextErr
	}
	if r.pos >= len(r.script.rows) {
		return nil, io.EOF
	}
	row := r.script.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *result) Close() error {
	r.once.Do(func() {
		r.conn.db.engine.record(Call{Op: OpCloseResult, Path: r.conn.db.path, Query: r.query}, -1)
	})
	return nil
}

type script struct {
	rows      []value.Row
	err       error
	failAfter int
	nextErr   error
}

// Dataset maps query texts to scripted results. Exact matches take
// precedence over prefix matches; prefixes are tried in registration order.
type Dataset struct {
	mu       sync.RWMutex
	exact    map[string]script
	prefixes []prefixScript
}

type prefixScript struct {
	prefix string
	script script
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{exact: make(map[string]script)}
}

// Script sets the rows returned for query.
func (d *Dataset) Script(query string, rows ...value.Row) *Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.exact[query]
	s.rows = rows
	d.exact[query] = s
	return d
}

// ScriptPrefix sets the rows returned for any query starting with prefix.
func (d *Dataset) ScriptPrefix(prefix string, rows ...value.Row) *Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prefixes = append(d.prefixes, prefixScript{prefix: prefix, script: script{rows: rows}})
	return d
}

// FailQuery makes executing query fail with err.
func (d *Dataset) FailQuery(query string, err error) *Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.exact[query]
	s.err = err
	d.exact[query] = s
	return d
}

// FailAfter makes fetching the row after the first n rows of query fail
// with err.
func (d *Dataset) FailAfter(query string, n int, err error) *Dataset {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.exact[query]
	s.failAfter = n
	s.nextErr = err
	d.exact[query] = s
	return d
}

func (d *Dataset) lookup(query string) (script, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if s, ok := d.exact[query]; ok {
		return s, nil
	}
	for _, p := range d.prefixes {
		if strings.HasPrefix(query, p.prefix) {
			return p.script, nil
		}
	}
	return script{}, fmt.Errorf("no result scripted for query %q", query)
}
