package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// NO_COLOR disables color; otherwise color is kept when piped
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// printer writes command output to the command's streams so tests can
// capture it.
type printer struct {
	out io.Writer
	err io.Writer
}

func (p *printer) Success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

func (p *printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.out, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

func (p *printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

func (p *printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Error prints title, explanation and suggestions to stderr and returns an
// error carrying only the title, for cobra.
func (p *printer) Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(p.err, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(p.err, "%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.err, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.err, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.err, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", strings.TrimSpace(title))
}
