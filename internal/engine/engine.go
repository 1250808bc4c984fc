package engine

import (
	"github.com/LadybugDB/bugscope/internal/value"
)

// Options tune how a database file is opened. Zero values select the
// engine's defaults.
type Options struct {
	ReadOnly       bool
	BufferPoolSize uint64
	MaxThreads     uint64
}

// Engine opens database files.
type Engine interface {
	// Name identifies the implementation in logs and metrics.
	Name() string
	Open(path string, opts Options) (Database, error)
}

// Database is an open handle to one database file.
type Database interface {
	Connect() (Conn, error)
	Close() error
}

// Conn executes queries against an open Database.
type Conn interface {
	Execute(query string) (Result, error)
	Close() error
}

// Result iterates the rows of one executed query.
type Result interface {
	// Next returns the next row, or io.EOF once all rows were consumed.
	Next() (value.Row, error)
	Close() error
}
