// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"tasklist/internal/service"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EmptyMessage is printed by the text format when there are no tasks.
const EmptyMessage = "no tasks found"

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n", followed by "          {DESCRIPTION}\n"
// when the description is not blank.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), NormalizeTitle(task.Title))
	if desc := normalizeText(task.Description); desc != "" {
		fmt.Fprintf(w, "          %s\n", desc)
	}
}

// FormatList writes tasks in the text format. An empty list prints
// EmptyMessage unless quiet is set.
func FormatList(w io.Writer, tasks []service.Task, quiet bool) {
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(w, EmptyMessage)
		}
		return
	}
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// Encode writes tasks in the given format.
func Encode(w io.Writer, format string, tasks []service.Task, quiet bool) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	switch format {
	case "", FormatText:
		FormatList(w, tasks, quiet)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// ValidFormat reports whether format is accepted by Encode.
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Checkbox renders the completion marker.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
