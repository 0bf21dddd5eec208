package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
)

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
// Command lines are generated from the registry.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd creates a help command listing the commands of r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasklist help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, ctl *controller.Controller, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, usageText(c.registry))
	return exitcode.Success
}

func usageText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  tasklist                    List all tasks\n")
	if r != nil {
		for _, cmd := range r.All() {
			synopsis := cmd.Synopsis()
			if aliases := cmd.Aliases(); len(aliases) > 0 {
				synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
			}
			fmt.Fprintf(&b, "  %s\n      %s\n", cmd.Usage(), synopsis)
		}
	}
	b.WriteString(helpFooter)
	return b.String()
}

const helpFooter = `
Task references:
  <n>              Position as printed by list (1-based)
  @<id>            Task id assigned by the store

Common flags:
  --config <dir>   Override config directory
  --url <base>     Override the task API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKLIST_API_URL, TASKLIST_BACKEND, TASKLIST_TIMEOUT,
  TASKLIST_GOOGLE_LIST, TASKLIST_DEBUG
`
