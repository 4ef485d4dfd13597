package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Theme defines the colour palette for command output.
type Theme struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Success: lipgloss.NewStyle().Bold(true).Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
	}
}

// printer writes command output, styled only when the writer is a terminal.
type printer struct {
	out    io.Writer
	styles *Styles
	styled bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{out: w, styles: NewStyles(nil), styled: isTerminal(w)}
}

// stdout returns a printer for the command's summary output.
func stdout(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout())
}

// stderr returns a printer for diagnostics.
func stderr(cmd *cobra.Command) *printer {
	return newPrinter(cmd.ErrOrStderr())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) line(style *lipgloss.Style, format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if style != nil {
		s = p.render(*style, s)
	}
	fmt.Fprintln(p.out, s)
}

func (p *printer) Title(format string, args ...any) {
	p.line(&p.styles.Title, format, args...)
}

func (p *printer) Plain(format string, args ...any) {
	p.line(nil, format, args...)
}

func (p *printer) Muted(format string, args ...any) {
	p.line(&p.styles.Muted, format, args...)
}

func (p *printer) Success(format string, args ...any) {
	p.line(&p.styles.Success, format, args...)
}

func (p *printer) Warning(format string, args ...any) {
	p.line(&p.styles.Warning, format, args...)
}

func (p *printer) Error(format string, args ...any) {
	p.line(&p.styles.Error, format, args...)
}
