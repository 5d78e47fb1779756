package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyluth/kanban/pkg/board"
)

// FormatBoard writes every column top to bottom with its tasks in display
// order. Ages are relative to now.
func FormatBoard(w io.Writer, b board.Board, instanceName string, now time.Time) {
	fmt.Fprintf(w, "Board '%s'\n", instanceName)

	for _, col := range b.Columns {
		fmt.Fprintf(w, "\n%s (%d)\n", col.Title, len(col.TaskIDs))
		tasks := b.TasksByColumn(col.ID)
		if len(tasks) == 0 {
			fmt.Fprintf(w, "  -\n")
			continue
		}
		for _, t := range tasks {
			fmt.Fprintf(w, "  %-8s  %-7s  %s\n",
				formatID(t.ID),
				formatAge(t.CreatedAt, now),
				formatTitle(t.Title),
			)
		}
	}

	fmt.Fprintf(w, "\n%s in %s\n", plural(len(b.Tasks), "task"), plural(len(b.Columns), "column"))
}

// FormatTable writes tasks as a table with ID, COLUMN, AGE and TITLE.
// Returns the number of tasks formatted.
func FormatTable(w io.Writer, b board.Board, tasks []board.Task, now time.Time) int {
	if len(tasks) == 0 {
		fmt.Fprintf(w, "No tasks found\n")
		return 0
	}

	fmt.Fprintf(w, "%-8s  %-14s  %-7s  %s\n", "ID", "COLUMN", "AGE", "TITLE")
	fmt.Fprintf(w, "%-8s  %-14s  %-7s  %s\n", "--------", "--------------", "-------", "----------------------------------------")

	for _, t := range tasks {
		fmt.Fprintf(w, "%-8s  %-14s  %-7s  %s\n",
			formatID(t.ID),
			formatColumn(b, t.ColumnID),
			formatAge(t.CreatedAt, now),
			formatTitle(t.Title),
		)
	}

	fmt.Fprintf(w, "\n%s found\n", plural(len(tasks), "task"))
	return len(tasks)
}

// FormatTask writes the full details of one task.
func FormatTask(w io.Writer, b board.Board, t board.Task, now time.Time) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Column:      %s (%s)\n", formatColumn(b, t.ColumnID), t.ColumnID)
	if col, ok := b.Column(t.ColumnID); ok {
		fmt.Fprintf(w, "Position:    %d of %d\n", board.IndexOf(col.TaskIDs, t.ID)+1, len(col.TaskIDs))
	}
	fmt.Fprintf(w, "Created:     %s (%s)\n", t.CreatedAt.UTC().Format(time.RFC3339), formatAge(t.CreatedAt, now))

	if strings.TrimSpace(t.Description) == "" {
		fmt.Fprintf(w, "Description: -\n")
		return
	}
	fmt.Fprintf(w, "Description:\n")
	for _, line := range strings.Split(strings.TrimRight(t.Description, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// FormatJSONL writes tasks as line-delimited JSON, one task per line.
func FormatJSONL(w io.Writer, tasks []board.Task) error {
	for _, t := range tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal task to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatJSON writes v as pretty-printed JSON followed by a newline.
func FormatJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// formatID truncates ids to 8 characters; UUIDs stay recognisable and
// can be passed back as short ids.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTitle keeps the first line of a title, at most 40 characters.
func formatTitle(title string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(title), "\n")
	runes := []rune(line)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return line
}

func formatColumn(b board.Board, columnID string) string {
	col, ok := b.Column(columnID)
	if !ok {
		return columnID
	}
	return col.Title
}

// formatAge renders the time since t as "2m ago", "1h ago" and so on.
func formatAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
