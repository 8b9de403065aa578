package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"rendezvous/internal/account"
	"rendezvous/internal/config"
	"rendezvous/internal/handler"
	"rendezvous/internal/health"
	"rendezvous/internal/middleware"
	"rendezvous/internal/schedule"
	"rendezvous/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "rendezvous",
		Usage: "Find a date that works for everyone.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server and the gRPC health endpoint.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address, overrides PORT"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool, err := store.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger.Info("connected to postgres")

			st := store.New(pool)
			if cfg.MigrateOnStart {
				if err := migrate(ctx, st, logger); err != nil {
					return err
				}
			}

			limiter := middleware.NewRateLimiter(cfg.AuthRate, cfg.AuthBurst)
			go limiter.Sweep(time.Minute, 3*time.Minute, ctx.Done())

			h, err := handler.New(
				schedule.New(st, logger),
				account.New(st, logger),
				middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL),
				limiter,
				st,
				logger,
			)
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}

			// health on grpc
			hs := health.New(st, logger)
			lis, err := net.Listen("tcp", ":"+cfg.HealthPort)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			go hs.Watch(ctx, 15*time.Second)
			go func() {
				logger.Info("grpc health listening", "addr", lis.Addr().String())
				if err := hs.Serve(lis); err != nil {
					logger.Error("grpc health", "error", err)
				}
			}()

			addr := c.String("addr")
			if addr == "" {
				addr = ":" + cfg.Port
			}
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				logger.Info("http listening", "addr", addr)
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			// graceful shutdown
			select {
			case <-ctx.Done():
			case err := <-errc:
				hs.Stop()
				return fmt.Errorf("http: %w", err)
			}
			logger.Info("shutting down")
			hs.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			pool, err := store.Connect(c.Context, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			return migrate(c.Context, store.New(pool), logger)
		},
	}
}

func migrate(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	applied, err := st.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(applied) == 0 {
		logger.Info("schema up to date")
		return nil
	}
	logger.Info("migrations applied", "files", applied)
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
