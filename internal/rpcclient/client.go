package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/fsutil"
	"github.com/LadybugDB/bugscope/internal/graph"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/LadybugDB/bugscope/internal/rpcserver"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds connecting and each call when no timeout is given.
const DefaultTimeout = 10 * time.Second

// ErrTimeout is returned when the server does not answer in time.
var ErrTimeout = errors.New("timed out waiting for server")

// Client is a connected socket.io client.
type Client struct {
	io      *socket.Socket
	timeout time.Duration
}

// envelope mirrors rpcserver.Response with the payload left undecoded.
type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// Dial connects to the server at rawURL (for example http://127.0.0.1:7411)
// and waits until the connection is established.
func Dial(ctx context.Context, rawURL string, timeout time.Duration) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: scheme and host are required", rawURL)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	opts := socket.DefaultOptions()
	opts.SetPath("/socket.io/")
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)
	opts.SetTimeout(timeout)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		select {
		case done <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case done <- err:
		default:
		}
	})

	io.Connect()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-waitCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection to %s", baseURL)
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("failed to connect to %s: %w", baseURL, err)
		}
	}

	logger.Debug("Connected to server.", "sid", io.Id())
	return &Client{io: io, timeout: timeout}, nil
}

// Close disconnects from the server.
func (c *Client) Close() error {
	c.io.Disconnect()
	return nil
}

// ListDatabases returns the server's current database listing.
func (c *Client) ListDatabases(ctx context.Context) ([]registry.DatabaseInfo, error) {
	var out []registry.DatabaseInfo
	if err := c.call(ctx, rpcserver.EventListDatabases, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterDatabase registers path on the server.
func (c *Client) RegisterDatabase(ctx context.Context, path string) (registry.DatabaseInfo, error) {
	var out registry.DatabaseInfo
	err := c.call(ctx, rpcserver.EventRegisterDatabase, rpcserver.RegisterDatabaseRequest{FilePath: path}, &out)
	return out, err
}

// ListDirectory lists path on the server's filesystem.
func (c *Client) ListDirectory(ctx context.Context, path string) (*fsutil.DirectoryListing, error) {
	var out fsutil.DirectoryListing
	if err := c.call(ctx, rpcserver.EventListDirectory, rpcserver.ListDirectoryRequest{Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OverviewGraph fetches the overview graph of the database with the given id.
func (c *Client) OverviewGraph(ctx context.Context, databaseID int) (graph.Data, error) {
	var out graph.Data
	err := c.call(ctx, rpcserver.EventOverviewGraph, rpcserver.OverviewGraphRequest{ID: &databaseID}, &out)
	return out, err
}

// RunQuery runs query against the database with the given id.
func (c *Client) RunQuery(ctx context.Context, databaseID int, query string) (graph.Data, error) {
	var out graph.Data
	err := c.call(ctx, rpcserver.EventRunQuery, rpcserver.RunQueryRequest{ID: &databaseID, Query: query}, &out)
	return out, err
}

type ackResult struct {
	args []any
	err  error
}

// call emits event with payload and decodes the acknowledged data into out.
func (c *Client) call(ctx context.Context, event string, payload any, out any) error {
	logger := ctxlog.FromContext(ctx).With("event", event)

	done := make(chan ackResult, 1)
	ack := func(args []any, err error) {
		done <- ackResult{args: args, err: err}
	}

	args := []any{}
	if payload != nil {
		args = append(args, payload)
	}
	args = append(args, ack)

	logger.Debug("Emitting event.")
	if err := c.io.Timeout(c.timeout).Emit(event, args...); err != nil {
		return fmt.Errorf("failed to emit %s: %w", event, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var res ackResult
	select {
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", event, ErrTimeout)
	case res = <-done:
	}
	if res.err != nil {
		return fmt.Errorf("%s: %w", event, res.err)
	}
	if len(res.args) == 0 {
		return fmt.Errorf("%s: empty acknowledgement", event)
	}

	raw, err := json.Marshal(res.args[0])
	if err != nil {
		return fmt.Errorf("%s: failed to re-encode acknowledgement: %w", event, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s: malformed acknowledgement: %w", event, err)
	}
	if !env.OK {
		return errors.New(env.Error)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", event, err)
	}
	return nil
}
