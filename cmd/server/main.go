package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood/tworooms/internal/config"
	"github.com/oakwood/tworooms/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var addr string
	var retention time.Duration

	cmd := &cobra.Command{
		Use:           "tworooms-server",
		Short:         "Reference HTTP/SSE server for the two-rooms hidden-role game core.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return fmt.Errorf("invalid --addr %q: %w", addr, err)
				}
				cfg.Server.Host = host
				cfg.Server.Port = port
			}
			if retention > 0 {
				cfg.Server.GameRetention = retention
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&configPath, "config", "", "path to a server.yaml config file (default: search ./config, ., /etc/tworooms)")
	fs.StringVar(&addr, "addr", "", "listen address, host:port (overrides config)")
	fs.DurationVar(&retention, "retention", 0, "finished-game retention window before reaping (overrides config)")

	return cmd
}

func run(ctx context.Context, cfg *config.ServerConfig) error {
	a, err := SetupServer(cfg)
	if err != nil {
		return fmt.Errorf("setup server: %w", err)
	}
	defer func() { _ = a.logger.Sync() }()

	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go runReaper(reapCtx, a)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  0, // SSE connections are held open indefinitely
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Sugar().Infow("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-quit:
		a.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// runReaper periodically removes FINISHED games past their retention
// window (§3.8) and keeps the active-game gauge current. Reap does not
// schedule itself; this is the one place that owns its cadence.
func runReaper(ctx context.Context, a *app) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := a.store.Reap(time.Now())
			for range removed {
				telemetry.GamesReapedTotal.Inc()
			}
			telemetry.GamesActive.Set(float64(a.store.Count()))
		}
	}
}
