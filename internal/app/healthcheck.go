package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LadybugDB/bugscope/internal/rpcserver"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Handler returns the HTTP surface: /health, /metrics and /socket.io/.
// The socket.io server is created on first use.
func (a *App) Handler() http.Handler {
	if a.rpc == nil {
		a.rpc = rpcserver.New(a.logger, a.service, a.config.Server.CORSOrigin, a.metrics)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", a.metrics.Handler())
	mux.Handle("/socket.io/", a.rpc.Handler())
	return mux
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Debug("Closing HTTP server...")

	if a.rpc != nil {
		a.rpc.Close()
	}
	if a.httpServer == nil {
		a.logger.Debug("HTTP server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	a.logger.Info("🩺 Shutting down HTTP server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}

	a.logger.Debug("HTTP server shut down gracefully.")
	return nil
}
