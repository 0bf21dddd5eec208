// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command talks to the task store.
	// Commands like help and version return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// ctl is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int
}

// backendError reports a failed store operation.
func backendError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// printTasks prints the controller's snapshot unless quiet.
func printTasks(cfg *config.Config, ctl *controller.Controller, out io.Writer) {
	if cfg.Quiet {
		return
	}
	output.FormatList(out, ctl.Tasks(), false)
}
