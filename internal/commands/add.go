package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "tasklist add [--description <text>] <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	description := c.description

	ctl.UpdateDraft(controller.DraftPatch{
		Title:       &title,
		Description: &description,
	})

	if err := ctl.Create(ctx); err != nil {
		if errors.Is(err, controller.ErrEmptyTitle) {
			fmt.Fprintln(errOut, "error: title required")
			return exitcode.UserError
		}
		return backendError(errOut, err)
	}

	printTasks(cfg, ctl, out)
	return exitcode.Success
}
