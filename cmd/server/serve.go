package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"baseapi/internal/platform/config"
	"baseapi/internal/platform/httpserver"
	"baseapi/internal/platform/logger"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.IsProduction())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	srv := httpserver.New(cfg.Server, a.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	for _, run := range a.workers {
		run := run
		g.Go(func() error { return run(gctx) })
	}

	log.Info("starting baseapi",
		"addr", cfg.Server.Addr,
		"env", cfg.Server.Environment,
		"store", cfg.Store.Driver,
		"cache", cfg.Cache.Driver,
	)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("baseapi stopped")
	return nil
}
