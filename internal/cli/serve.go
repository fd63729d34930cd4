package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/treescope/treescope/internal/server"
	"github.com/treescope/treescope/pkg/cache"
	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/layout"
)

// newServeCmd creates the serve command running the HTTP preview server.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		engineName string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive HTTP preview server",
		Long: `Serve starts an HTTP server for exploring trees interactively.
POST a tree as JSON to /trees to get a shareable URL; the page supports
pan and zoom. Trees are kept in memory by default, or in Redis when
serve.redis_addr is configured, which lets multiple instances share state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, engineName, configPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8422)")
	cmd.Flags().StringVar(&engineName, "engine", "", "layout engine: tidy (default), graphviz")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ./treescope.toml)")

	return cmd
}

func runServe(ctx context.Context, addr, engineName, configPath string) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Serve.Addr
	}
	if engineName != "" {
		cfg.Diagram.Engine = engineName
	}

	engine, err := layout.ForName(cfg.Diagram.Engine)
	if err != nil {
		return err
	}

	store, err := newTreeStore(ctx, cfg.Serve)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(store, diagram.NewRenderer(engine, cfg.Diagram), cfg.Diagram,
		server.WithWidth(cfg.Width),
		server.WithTreeTTL(time.Duration(cfg.Serve.TreeTTLMinutes)*time.Minute),
		server.WithLogger(logger),
	)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		printInfo("Serving on %s", StyleLink.Render("http://localhost"+addr))
		printDetail("POST a tree to /trees to get a preview URL")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newTreeStore picks the tree store backend: Redis when configured, an
// in-process cache otherwise.
func newTreeStore(ctx context.Context, cfg ServeConfig) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(), nil
	}
	store, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return store, nil
}
