package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorBold   = "\x1b[1m"
	colorReset  = "\x1b[0m"
)

// Renderer prints diagnostics, one per line, with ANSI colors when Color is set.
type Renderer struct {
	Color bool
}

// NewRenderer enables colors when f is a terminal.
func NewRenderer(f *os.File) *Renderer {
	fd := f.Fd()
	return &Renderer{Color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (r *Renderer) Render(w io.Writer, errs []*DiagnosticError) error {
	for _, e := range errs {
		if _, err := fmt.Fprintln(w, r.format(e)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) format(e *DiagnosticError) string {
	loc := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	if !r.Color {
		return fmt.Sprintf("%s: %s %s: %s", loc, e.Severity, e.Code, e.Message)
	}
	color := colorRed
	if e.Severity == SeverityWarning {
		color = colorYellow
	}
	return fmt.Sprintf("%s%s%s: %s%s %s%s: %s", colorBold, loc, colorReset, color, e.Severity, e.Code, colorReset, e.Message)
}
