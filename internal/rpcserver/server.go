package rpcserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/fsutil"
	"github.com/LadybugDB/bugscope/internal/graph"
	"github.com/LadybugDB/bugscope/internal/metrics"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/google/uuid"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// Operations is the service surface served over socket.io.
// *handlers.Service implements it.
type Operations interface {
	ListDatabases(ctx context.Context) []registry.DatabaseInfo
	RegisterDatabase(ctx context.Context, path string) (registry.DatabaseInfo, error)
	ListDirectory(ctx context.Context, path string) (*fsutil.DirectoryListing, error)
	OverviewGraph(ctx context.Context, databaseID int) (graph.Data, error)
	RunQuery(ctx context.Context, databaseID int, query string) (graph.Data, error)
}

// handlerFunc serves one event. payload is the raw JSON of the first event
// argument, or nil when the client sent none.
type handlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Server dispatches socket.io events to Operations.
type Server struct {
	io       *socket.Server
	ops      Operations
	metrics  *metrics.Metrics
	logger   *slog.Logger
	handlers map[string]handlerFunc
}

// New creates a Server. corsOrigin is the allowed browser origin; "*" allows
// any. m may be nil.
func New(logger *slog.Logger, ops Operations, corsOrigin string, m *metrics.Metrics) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetServeClient(false)
	if corsOrigin != "" {
		opts.SetCors(&types.Cors{Origin: corsOrigin, Credentials: corsOrigin != "*"})
	}

	s := &Server{
		io:       socket.NewServer(nil, opts),
		ops:      ops,
		metrics:  m,
		logger:   logger,
		handlers: make(map[string]handlerFunc),
	}
	s.RegisterHandler(EventListDatabases, s.listDatabases)
	s.RegisterHandler(EventRegisterDatabase, s.registerDatabase)
	s.RegisterHandler(EventListDirectory, s.listDirectory)
	s.RegisterHandler(EventOverviewGraph, s.overviewGraph)
	s.RegisterHandler(EventRunQuery, s.runQuery)

	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.attach(client)
	})
	return s
}

// RegisterHandler binds fn to event. It panics if event already has a
// handler.
func (s *Server) RegisterHandler(event string, fn handlerFunc) {
	if _, exists := s.handlers[event]; exists {
		panic(fmt.Sprintf("handler for event '%s' already registered", event))
	}
	s.handlers[event] = fn
}

// Handler returns the http.Handler to mount under /socket.io/.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.io.Close(nil)
}

func (s *Server) attach(client *socket.Socket) {
	logger := s.logger.With("sid", client.Id())
	logger.Debug("Client connected.")
	s.metrics.ClientConnected()

	for event := range s.handlers {
		client.On(event, func(args ...any) {
			s.handle(client, event, args)
		})
	}

	client.On("disconnect", func(reason ...any) {
		s.metrics.ClientDisconnected()
		logger.Debug("Client disconnected.", "reason", reason)
	})
}

// handle runs one event and acknowledges it if the client asked for an ack.
func (s *Server) handle(client *socket.Socket, event string, args []any) {
	var ack socket.Ack
	if n := len(args); n > 0 {
		if fn, ok := args[n-1].(socket.Ack); ok {
			ack = fn
			args = args[:n-1]
		}
	}

	ctx := context.Background()
	requestID := uuid.NewString()
	ctx = ctxlog.WithLogger(ctx, s.logger.With("sid", client.Id(), "event", event))
	ctx = ctxlog.WithRequestID(ctx, requestID)

	var payload any
	if len(args) > 0 {
		payload = args[0]
	}
	resp := s.dispatch(ctx, event, payload)

	if ack == nil {
		ctxlog.FromContext(ctx).Warn("Event received without acknowledgement callback; response dropped.")
		return
	}
	ack([]any{resp}, nil)
}

// dispatch decodes payload, runs the handler for event and wraps the outcome
// in a Response.
func (s *Server) dispatch(ctx context.Context, event string, payload any) Response {
	logger := ctxlog.FromContext(ctx)

	fn, ok := s.handlers[event]
	if !ok {
		return Response{Error: fmt.Sprintf("unknown event %q", event)}
	}

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			s.metrics.ObserveEvent(event, false)
			return Response{Error: "invalid payload"}
		}
		raw = b
	}

	logger.Debug("Handling event.")
	data, err := fn(ctx, raw)
	if err != nil {
		s.metrics.ObserveEvent(event, false)
		logger.Debug("Event failed.", "error", err, "kind", apperror.KindOf(err).String())
		return Response{Error: err.Error()}
	}
	s.metrics.ObserveEvent(event, true)
	return Response{OK: true, Data: data}
}

// decode unmarshals payload into v. A missing payload leaves v untouched.
func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return apperror.Validation(fmt.Sprintf("invalid payload: %v", err))
	}
	return nil
}

func (s *Server) listDatabases(ctx context.Context, _ json.RawMessage) (any, error) {
	return s.ops.ListDatabases(ctx), nil
}

func (s *Server) registerDatabase(ctx context.Context, payload json.RawMessage) (any, error) {
	var req RegisterDatabaseRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return s.ops.RegisterDatabase(ctx, req.FilePath)
}

func (s *Server) listDirectory(ctx context.Context, payload json.RawMessage) (any, error) {
	var req ListDirectoryRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return s.ops.ListDirectory(ctx, req.Path)
}

func (s *Server) overviewGraph(ctx context.Context, payload json.RawMessage) (any, error) {
	var req OverviewGraphRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.ID == nil {
		return nil, apperror.Validation("id is required")
	}
	return s.ops.OverviewGraph(ctx, *req.ID)
}

func (s *Server) runQuery(ctx context.Context, payload json.RawMessage) (any, error) {
	var req RunQueryRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.ID == nil {
		return nil, apperror.Validation("id is required")
	}
	return s.ops.RunQuery(ctx, *req.ID, req.Query)
}
