/*
PURPOSE:
  Operator-facing console output with the release tool's color palette.

IMPLEMENTATION RULES:
  - Use lipgloss for color; keep diagnostics on the logger.
*/

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// Printer writes operator-facing lines. Colors degrade to plain text when
// the writer is not a terminal.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w (stdout when nil).
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

func (p *Printer) Println(a ...any) { fmt.Fprintln(p.w, a...) }

func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }

// Echo prints captured subprocess output, skipping empty text.
func (p *Printer) Echo(s string) {
	if s == "" {
		return
	}
	fmt.Fprintln(p.w, s)
}

// Step prints a blank line and a "=> msg" header.
func (p *Printer) Step(msg string) { fmt.Fprintf(p.w, "\n=> %s\n", msg) }

func Green(s string) string  { return okStyle.Render(s) }
func Yellow(s string) string { return warnStyle.Render(s) }
func Red(s string) string    { return errStyle.Render(s) }
func Blue(s string) string   { return infoStyle.Render(s) }
