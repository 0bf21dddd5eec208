// Package main is the entry point for the tasklist CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tasklist/internal/backend/googletasks"
	"tasklist/internal/backend/restapi"
	"tasklist/internal/cli"
	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/service"
)

// Set by ldflags at build time.
var version = ""

func main() {
	if version != "" {
		commands.Version = version
	}

	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newStore)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newStore builds the task store selected by cfg.Backend.
func newStore(ctx context.Context, cfg *config.Config) (service.Store, error) {
	switch cfg.Backend {
	case config.BackendREST:
		return restapi.New(cfg)
	case config.BackendGoogle:
		return googletasks.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
}
