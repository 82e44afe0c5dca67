package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"askhub.app/dispatch/common/id"
	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/core/config"
	"askhub.app/dispatch/internal/app"
	"askhub.app/dispatch/internal/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := command.Execute(ctx, open); err != nil {
		stop()
		os.Exit(1)
	}
}

func open(ctx context.Context) (command.Routing, func(), error) {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger.SetupTo(cfg, os.Stderr)

	// Node 3 keeps CLI ids disjoint from the server's and worker's.
	if err := id.Init(3); err != nil {
		return nil, nil, fmt.Errorf("initializing id generator: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return a.Services.Routing(), a.Close, nil
}
