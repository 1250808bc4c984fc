package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Serve listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Server.Addr, err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Serve method started.")

	a.httpServer = &http.Server{Handler: a.Handler()}

	errCh := make(chan error, 1)
	go func() {
		addr := ln.Addr().String()
		a.logger.Info("🩺 Server starting", "address", fmt.Sprintf("http://%s", addr), "health", fmt.Sprintf("http://%s/health", addr))
		a.logger.Info("Databases discovered.", "count", len(a.registry.List(ctx)), "root", a.registry.Root())
		// Serve returns http.ErrServerClosed on graceful shutdown.
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			a.logger.Error("HTTP server failed unexpectedly", "error", err)
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := a.shutdown(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	a.logger.Debug("App.Serve method finished.")
	return nil
}
