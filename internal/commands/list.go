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

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklist` (no args) and `tasklist list`.
type ListCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ListCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tasklist list [--format text|json|yaml]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", output.FormatText, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := c.format
	if format == "" {
		format = output.FormatText
	}
	if !output.ValidFormat(format) {
		fmt.Fprintf(errOut, "error: unknown format: %s\n", format)
		return exitcode.UserError
	}

	if err := ctl.Load(ctx); err != nil {
		return backendError(errOut, err)
	}

	if err := output.Encode(out, format, ctl.Tasks(), cfg.Quiet); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
