package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printer writes styled status lines to one writer. Styles are bound to
// the writer so colours are dropped when it is not a terminal.
type printer struct {
	w       io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	dim     lipgloss.Style
	value   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		success: r.NewStyle().Foreground(colorGreen),
		warning: r.NewStyle().Foreground(colorYellow),
		dim:     r.NewStyle().Foreground(colorDim),
		value:   r.NewStyle().Foreground(colorWhite),
	}
}

// printSuccess prints a success message.
func (p *printer) printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.w, p.success.Render(iconSuccess)+" "+msg)
}

// printWarning prints a warning message.
func (p *printer) printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.w, p.warning.Render(iconWarning)+" "+p.warning.Render(msg))
}

// printFile prints a file output line.
func (p *printer) printFile(path string) {
	fmt.Fprintln(p.w, "  "+p.dim.Render(iconArrow)+" "+p.value.Render(path))
}
