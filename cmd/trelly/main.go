// Command trelly serves the Trello tool set to an MCP host over stdio.
//
// Configuration is environment-only: TRELLO_API_KEY and TRELLO_TOKEN must be
// set, and the process refuses to start without them.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skosovsky/trelly"
	"github.com/skosovsky/trelly/boardtools"
	"github.com/skosovsky/trelly/mcpserver"
	"github.com/skosovsky/trelly/trello"
)

const version = "0.1.0"

func main() {
	// stdout carries the MCP transport; all diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("trelly exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := trello.ConfigFromEnv()
	if err != nil {
		return err
	}
	client, err := trello.NewClient(cfg)
	if err != nil {
		return err
	}

	// The registry deadline sits above the fixed 10s upstream call budget so
	// the HTTP timeout is the one that fires.
	reg := trelly.NewRegistry(
		trelly.WithDefaultTimeout(15 * time.Second),
		trelly.WithRecoverPanics(true),
	)
	reg.Use(trelly.WithLogging(logger))
	if err := boardtools.RegisterAll(reg, client); err != nil {
		return err
	}

	srv, err := mcpserver.New("trelly", version, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving Trello tools over stdio", "tools", len(reg.GetAllTools()), "version", version)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
