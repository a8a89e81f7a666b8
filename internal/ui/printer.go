// Package ui prints the human-facing progress lines of a bundle run. Structured
// logs go through slog; this is what a developer watching the upload reads.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const markerWidth = 3

// Printer writes styled stage messages to a writer.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	step    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

// NewPrinter returns a Printer for w. Colors are used only when color is true.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:       w,
		step:    r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		fail:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Step announces the start of a stage.
func (p *Printer) Step(format string, args ...any) { p.line(p.step, "==>", format, args) }

// Success reports a finished stage.
func (p *Printer) Success(format string, args ...any) { p.line(p.success, "ok", format, args) }

// Warn reports a condition that does not abort the run.
func (p *Printer) Warn(format string, args ...any) { p.line(p.warn, "!!", format, args) }

// Error reports the failure that aborts the run.
func (p *Printer) Error(format string, args ...any) { p.line(p.fail, "xx", format, args) }

func (p *Printer) line(style lipgloss.Style, marker, format string, args []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pad := strings.Repeat(" ", markerWidth-len(marker))
	fmt.Fprintf(p.w, "%s%s %s\n", style.Render(marker), pad, fmt.Sprintf(format, args...))
}
