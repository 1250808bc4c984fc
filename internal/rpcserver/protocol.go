package rpcserver

import (
	"github.com/LadybugDB/bugscope/internal/handlers"
)

// Event names.
const (
	EventListDatabases    = handlers.OpListDatabases
	EventRegisterDatabase = handlers.OpRegisterDatabase
	EventListDirectory    = handlers.OpListDirectory
	EventOverviewGraph    = handlers.OpOverviewGraph
	EventRunQuery         = handlers.OpRunQuery
)

// Response is the acknowledgement envelope of every event.
type Response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// RegisterDatabaseRequest is the payload of registerDatabase.
type RegisterDatabaseRequest struct {
	FilePath string `json:"filePath"`
}

// ListDirectoryRequest is the payload of listDirectory. An empty path lists
// the registry root.
type ListDirectoryRequest struct {
	Path string `json:"path,omitempty"`
}

// OverviewGraphRequest is the payload of getOverviewGraph.
type OverviewGraphRequest struct {
	ID *int `json:"id"`
}

// RunQueryRequest is the payload of runQuery.
type RunQueryRequest struct {
	ID    *int   `json:"id"`
	Query string `json:"query"`
}
