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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tasklist rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int {
	task, code := loadTaskRef(ctx, ctl, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctl.Delete(ctx, task.ID); err != nil {
		return backendError(errOut, err)
	}

	printTasks(cfg, ctl, out)
	return exitcode.Success
}
