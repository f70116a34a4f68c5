// Package output provides styled terminal output for CLI commands.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the result rendering format.
type Mode string

const (
	ModeTable    Mode = "table"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "md"
)

// ValidMode reports whether s names a supported mode.
func ValidMode(s string) bool {
	switch Mode(s) {
	case ModeTable, ModeJSON, ModeCSV, ModeMarkdown:
		return true
	case "markdown":
		return true
	}
	return false
}

// styles holds the lipgloss styles used across commands.
type styles struct {
	success lipgloss.Style
	err     lipgloss.Style
	notice  lipgloss.Style
}

func newStyles(colored bool) *styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return &styles{success: plain, err: plain, notice: plain}
	}
	return &styles{
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Renderer writes styled command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *styles
}

// NewRenderer creates a renderer. Color is enabled only when the terminal
// advertises a color profile.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	colored := termenv.EnvColorProfile() != termenv.Ascii
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		styles: newStyles(colored),
	}
}

// Writer returns the destination for result output.
func (r *Renderer) Writer() io.Writer { return r.out }

// Mode returns the result rendering format.
func (r *Renderer) Mode() Mode { return r.mode }

// Successf prints a styled success line.
func (r *Renderer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.styles.success.Render(fmt.Sprintf(format, args...)))
}

// Noticef prints a styled notice line.
func (r *Renderer) Noticef(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, r.styles.notice.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a styled error line to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.err.Render(fmt.Sprintf(format, args...)))
}
