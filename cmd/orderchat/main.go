package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/frelanci/orderchat/internal/adapter/marketplace"
	"github.com/frelanci/orderchat/internal/config"
	"github.com/frelanci/orderchat/internal/di"
	"github.com/frelanci/orderchat/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		cfg      *config.Config
		logger   *slog.Logger
		sessions *session.Store
		client   marketplace.Client
	)

	app := fx.New(
		fx.NopLogger,
		di.ClientModule(),
		fx.Populate(&cfg, &logger, &sessions, &client),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to assemble client: %v\n", err)
		os.Exit(1)
	}

	repl := newREPL(cfg, logger, sessions, client)
	if err := repl.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "orderchat: %v\n", err)
		os.Exit(1)
	}
}
