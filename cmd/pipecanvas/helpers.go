package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/pipecanvas"
	"github.com/aretw0/pipecanvas/internal/config"
	"github.com/aretw0/pipecanvas/internal/logging"
	"github.com/aretw0/pipecanvas/internal/presentation/tui"
	"github.com/aretw0/pipecanvas/pkg/adapters/redis"
	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/spf13/cobra"
)

// loadConfig reads the config file and lets persistent flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewWriter(os.Stderr, logging.ParseLevel(cfg.LogLevel), logging.Format(cfg.LogFormat))
}

// newEditor builds the editor the config describes. The returned closer
// releases the store connection.
func newEditor(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*pipecanvas.Editor, func() error, error) {
	opts := []pipecanvas.Option{
		pipecanvas.WithLogger(logger),
		pipecanvas.WithLifecycleHooks(hooks),
		pipecanvas.WithKindsFile(cfg.KindsFile),
		pipecanvas.WithKindsDir(cfg.KindsDir),
	}

	closer := func() error { return nil }
	if cfg.Store == config.StoreRedis {
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		opts = append(opts,
			pipecanvas.WithStore(store),
			pipecanvas.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix), cfg.LockTTL),
		)
		closer = store.Close
		logger.Info("Using redis graph store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	}

	ed, err := pipecanvas.New(ctx, opts...)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return ed, closer, nil
}

// loadCatalog returns the built-in kinds plus the configured extra kinds.
func loadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	c := catalog.Default()
	if cfg.KindsFile != "" {
		if _, err := catalog.LoadYAML(c, cfg.KindsFile); err != nil {
			return nil, err
		}
	}
	if cfg.KindsDir != "" {
		if _, err := catalog.LoadDir(ctx, c, cfg.KindsDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// readPipeline decodes a wire payload from path, or from stdin when path is "-".
func readPipeline(path string, stdin io.Reader) (domain.Pipeline, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.Pipeline{}, fmt.Errorf("failed to open pipeline: %w", err)
		}
		defer f.Close()
		r = f
	}

	var p domain.Pipeline
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return domain.Pipeline{}, fmt.Errorf("invalid pipeline JSON: %w", err)
	}
	return p, nil
}

// printReport writes v as indented JSON with --json, or renders markdown.
func printReport(cmd *cobra.Command, v any, markdown string) error {
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	render, err := tui.NewRenderer("")
	if err != nil {
		_, err = fmt.Fprint(out, markdown)
		return err
	}
	text, err := render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, text)
	return err
}
