package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"solidview/internal/cache"
	"solidview/internal/catalog"
	"solidview/internal/config"
	"solidview/internal/handlers"
	"solidview/internal/metrics"
	"solidview/internal/middleware"
	"solidview/internal/render"
	"solidview/internal/router"
	"solidview/internal/watcher"
	"solidview/web"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var host, port string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = host
			}
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("watch") {
				cfg.WatchContent = watch
			}
			if g.logLevel != "" {
				cfg.LogLevel = g.logLevel
			}
			cfg.ContentDir = g.contentDir
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host; overrides APP_HOST")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port; overrides APP_PORT")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload --content-dir on change; overrides WATCH_CONTENT")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := setupLogger(os.Stdout, cfg.LogLevel, cfg.Env); err != nil {
		return err
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"content_dir", cfg.ContentDir,
	)

	cat, err := loadCatalog(cfg.ContentDir)
	if err != nil {
		return err
	}
	source := catalog.NewSource(cat)
	slog.Info("catalog loaded", "principles", cat.Len(), "ids", cat.IDs())

	// Page cache: Valkey when configured, otherwise in process.
	var pageCache cache.Store
	if cfg.ValkeyHost != "" {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer client.Close()
		pageCache = cache.NewValkeyCache(client, cfg.PageCacheTTL)
	} else {
		pageCache = cache.NewMemoryCache(cfg.PageCacheTTL)
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	m := metrics.New()
	limiter := middleware.NewRateLimiter(cfg.APIRateLimit, time.Minute, cfg.TrustProxy)
	defer limiter.Stop()

	r := router.New(router.Deps{
		Source:  source,
		Viewer:  handlers.NewViewer(source, renderer, pageCache, m),
		API:     handlers.NewAPI(source),
		Metrics: m,
		Limiter: limiter,
		Static:  web.Static(),
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Watching() {
		reloader := watcher.NewReloader(cfg.ContentDir, source, pageCache, m)
		go func() {
			if err := reloader.Watch(ctx); err != nil {
				slog.Error("content watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
