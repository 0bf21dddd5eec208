package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command: the interactive task page.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive task page" }
func (c *UICmd) Usage() string     { return "tasklist ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if err := tui.Run(ctx, ctl, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
