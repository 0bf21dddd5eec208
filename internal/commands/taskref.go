package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"tasklist/internal/controller"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

// IDPrefix marks a task reference given by store id instead of position.
const IDPrefix = "@"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Position int    // 1-based position in the loaded list, 0 if ID is set
	ID       string // store id, empty if Position is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. All digits (e.g. 3) → position in the list as printed by `list`
//  2. @<id> (e.g. @65f1c0) → task id as assigned by the store
//  3. Anything else → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Position: num}, nil
	}

	if id, ok := strings.CutPrefix(arg, IDPrefix); ok && strings.TrimSpace(id) != "" {
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef finds the referenced task in the controller's snapshot.
func ResolveTaskRef(ctl *controller.Controller, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		return ctl.Find(ref.ID)
	}
	return ctl.At(ref.Position)
}

// loadTaskRef parses args, loads the list and resolves the reference,
// reporting failures on errOut.
func loadTaskRef(ctx context.Context, ctl *controller.Controller, args []string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}

	if err := ctl.Load(ctx); err != nil {
		return service.Task{}, backendError(errOut, err)
	}

	task, err := ResolveTaskRef(ctl, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}
