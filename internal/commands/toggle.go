package commands

import (
	"context"
	"flag"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Toggle a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "tasklist toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int {
	task, code := loadTaskRef(ctx, ctl, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctl.ToggleComplete(ctx, task); err != nil {
		return backendError(errOut, err)
	}

	printTasks(cfg, ctl, out)
	return exitcode.Success
}
