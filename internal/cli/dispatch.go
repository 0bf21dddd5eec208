// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

// StoreFactory creates a Store from config.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config) (service.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var baseURL string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&baseURL, "url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Load config: defaults, config file, environment, then flags
	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.ConfigError
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.Quiet = quiet
	if debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.ConfigError
	}

	var ctl *controller.Controller
	if cmd.NeedsStore() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: config error: no task store configured")
			return exitcode.ConfigError
		}
		store, err := d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: config error: %s\n", err)
			return exitcode.ConfigError
		}
		ctl = controller.New(store, controller.WithLogger(cfg.Logger(errOut)))
	}

	return cmd.Run(ctx, cfg, ctl, positionalArgs, out, errOut)
}

// flagErrorMessage turns flag package errors into the CLI's wording.
func flagErrorMessage(err error) string {
	if errors.Is(err, flag.ErrHelp) {
		return "unknown flag: -h (run: tasklist help)"
	}

	errStr := err.Error()

	// Missing flag value
	if name, ok := strings.CutPrefix(errStr, "flag needs an argument: "); ok {
		return "flag needs an argument: " + name
	}

	// Unknown flag
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}

	return errStr
}
