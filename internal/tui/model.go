// Package tui implements the interactive task page on bubbletea.
//
// The model is a view over a controller.Controller: every store operation
// runs as a tea.Cmd and reports back with an opDoneMsg, after which the
// model copies the controller's snapshot and draft. The draft lives in the
// controller; key presses edit it through UpdateDraft.
package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/controller"
	"tasklist/internal/service"
)

type focus int

const (
	focusList focus = iota
	focusTitle
	focusDescription
	focusCount
)

// Operation names carried by opDoneMsg.
const (
	opLoad   = "load"
	opCreate = "create"
	opToggle = "toggle"
	opDelete = "delete"
)

// Model is the bubbletea model of the task page.
type Model struct {
	ctx context.Context
	ctl *controller.Controller

	tasks  []service.Task
	draft  service.Draft
	cursor int
	focus  focus
	width  int

	// inFlight counts operations that have not reported back yet.
	inFlight int
	err      error
}

// opDoneMsg reports the end of a controller operation.
type opDoneMsg struct {
	op  string
	err error
}

// New creates the page model. The first Load is issued by Init and is
// already counted as in flight.
func New(ctx context.Context, ctl *controller.Controller) Model {
	return Model{
		ctx:      ctx,
		ctl:      ctl,
		tasks:    ctl.Tasks(),
		draft:    ctl.Draft(),
		inFlight: 1,
	}
}

// Run shows the page on out until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctl *controller.Controller, out io.Writer) error {
	p := tea.NewProgram(New(ctx, ctl),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return run(m.ctx, opLoad, m.ctl.Load)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case opDoneMsg:
		m.inFlight--
		if m.inFlight < 0 {
			m.inFlight = 0
		}
		m.err = msg.err
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateDraft(msg)
	}
	return m, nil
}

// start counts a new in-flight operation and returns the command running it.
func (m *Model) start(op string, fn func(context.Context) error) tea.Cmd {
	m.inFlight++
	return run(m.ctx, op, fn)
}

func run(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "tab", "a", "n":
		m.focus = focusTitle
	case "shift+tab":
		m.focus = focusDescription
	case "r":
		cmd := m.start(opLoad, m.ctl.Load)
		return m, cmd
	case " ", "enter", "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.start(opToggle, func(ctx context.Context) error {
			return m.ctl.ToggleComplete(ctx, task)
		})
		return m, cmd
	case "d", "delete":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.start(opDelete, func(ctx context.Context) error {
			return m.ctl.Delete(ctx, task.ID)
		})
		return m, cmd
	}
	return m, nil
}

func (m Model) updateDraft(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusList
		return m, nil
	case tea.KeyTab:
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus - 1 + focusCount) % focusCount
		return m, nil
	case tea.KeyEnter:
		cmd := m.start(opCreate, m.ctl.Create)
		return m, cmd
	case tea.KeyBackspace:
		m.editField(func(s string) string {
			r := []rune(s)
			if len(r) == 0 {
				return s
			}
			return string(r[:len(r)-1])
		})
	case tea.KeySpace:
		m.editField(func(s string) string { return s + " " })
	case tea.KeyRunes:
		runes := string(msg.Runes)
		m.editField(func(s string) string { return s + runes })
	}
	return m, nil
}

// editField applies edit to the focused draft field through the controller.
func (m *Model) editField(edit func(string) string) {
	draft := m.ctl.Draft()
	switch m.focus {
	case focusTitle:
		title := edit(draft.Title)
		m.ctl.UpdateDraft(controller.DraftPatch{Title: &title})
	case focusDescription:
		desc := edit(draft.Description)
		m.ctl.UpdateDraft(controller.DraftPatch{Description: &desc})
	}
	m.draft = m.ctl.Draft()
}

// sync copies controller state into the model and keeps the cursor in range.
func (m *Model) sync() {
	m.tasks = m.ctl.Tasks()
	m.draft = m.ctl.Draft()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}
