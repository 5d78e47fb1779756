package printer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/dyluth/kanban/pkg/board"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
	faint  = color.New(color.Faint)
)

// columnColors maps board colour tokens to terminal colours
var columnColors = map[string]*color.Color{
	board.ColorBlue:   color.New(color.FgBlue, color.Bold),
	board.ColorPurple: color.New(color.FgMagenta, color.Bold),
	board.ColorOrange: color.New(color.FgYellow, color.Bold),
	board.ColorGreen:  color.New(color.FgGreen, color.Bold),
}

// Printer writes user-facing CLI output. Out carries results; Err carries
// errors and warnings.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New creates a Printer. Nil writers default to stdout and stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{Out: out, Err: errOut}
}

// Success prints a success message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(p.Out, msg)
}

// Info prints an informational message in the default color
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.Out, format, a...)
}

// Warning prints a warning message in yellow with a warning emoji prefix
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	yellow.Fprint(p.Err, msg)
}

// Step prints a step message with emphasis (used in multi-step operations)
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.Out, "→ %s", fmt.Sprintf(format, a...))
}

// Heading prints a bold line
func (p *Printer) Heading(format string, a ...any) {
	bold.Fprintf(p.Out, format, a...)
}

// Muted prints de-emphasised text
func (p *Printer) Muted(format string, a ...any) {
	faint.Fprintf(p.Out, format, a...)
}

// Column prints text in the terminal colour of a board colour token.
// Unknown tokens print uncoloured.
func (p *Printer) Column(token string, format string, a ...any) {
	c, ok := columnColors[token]
	if !ok {
		fmt.Fprintf(p.Out, format, a...)
		return
	}
	c.Fprintf(p.Out, format, a...)
}

// Error prints a formatted error with title, explanation, and suggestions
// to Err and returns a simple error for Cobra
func (p *Printer) Error(title string, explanation string, suggestions []string) error {
	return p.ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext is Error plus key/value context lines, printed in key
// order
func (p *Printer) ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(p.Err, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(p.Err, "%s\n", explanation)
	}

	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for k := range context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(p.Err, "\n")
		for _, k := range keys {
			fmt.Fprintf(p.Err, "  %s: %s\n", k, context[k])
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(p.Err, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(p.Err, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(p.Err, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(p.Err, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	// Not printed again: the root command sets SilenceErrors
	return fmt.Errorf("%s", title)
}
