package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StartHTTPServer listens on cfg.Port and blocks until SIGINT or SIGTERM,
// then drains in-flight requests.
func StartHTTPServer(handler http.Handler, cfg ServerConfig, events LifecycleLogger) error {
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, ln, handler, cfg, events)
}

// Serve runs the server on ln until ctx is done. It returns only after the
// serve loop has exited.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg ServerConfig, events LifecycleLogger) error {
	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	events.Log(ctx, LifecycleEvent{
		Action:  ActionServerStart,
		Message: "HTTP server running",
		Meta:    map[string]any{"addr": ln.Addr().String()},
	})

	serveErr := make(chan error, 1)
	go func() {
		err := server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	events.Log(context.Background(), LifecycleEvent{
		Action:  ActionServerShutdown,
		Message: "Server is shutting down",
		Meta:    map[string]any{"cause": context.Cause(ctx).Error()},
	})

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
		_ = server.Close()
		<-serveErr
		return fmt.Errorf("shutdown: %w", err)
	}

	<-serveErr
	zap.L().Info("Server exited gracefully")
	return nil
}
