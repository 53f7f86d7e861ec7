package pterm

import (
	"io"
	"os"

	"github.com/kubiyabot/dynatrace-mcp/internal/types"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// PTermManager manages PTerm components with OutputMode awareness
type PTermManager struct {
	mode     types.OutputMode
	disabled bool
	out      io.Writer
}

// NewPTermManager creates a new PTerm manager writing to out
func NewPTermManager(mode types.OutputMode, out io.Writer) *PTermManager {
	pm := &PTermManager{
		mode: mode,
		out:  out,
	}

	// Disable PTerm features when asked to, in CI and on non-TTY output
	if os.Getenv("DT_MCP_PTERM") == "false" || mode == types.OutputModeCI || !isTerminal(out) {
		pterm.DisableColor()
		pterm.DisableStyling()
		pm.disabled = true
		return pm
	}

	pm.applyTheme()

	return pm
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (pm *PTermManager) applyTheme() {
	pterm.Success = *pterm.Success.WithMessageStyle(pterm.NewStyle(pterm.FgLightGreen))
	pterm.Error = *pterm.Error.WithMessageStyle(pterm.NewStyle(pterm.FgLightRed))
	pterm.Info = *pterm.Info.WithMessageStyle(pterm.NewStyle(pterm.FgLightCyan))
	pterm.Warning = *pterm.Warning.WithMessageStyle(pterm.NewStyle(pterm.FgYellow))
}

// Spinner creates a configured spinner, nil when disabled
func (pm *PTermManager) Spinner(message string) *pterm.SpinnerPrinter {
	if pm.disabled {
		return nil
	}

	return pterm.DefaultSpinner.
		WithText(message).
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithWriter(pm.out)
}

// Table creates a configured table printer
func (pm *PTermManager) Table() *pterm.TablePrinter {
	if pm.disabled {
		return pterm.DefaultTable.WithHasHeader(true).WithWriter(pm.out)
	}

	return pterm.DefaultTable.
		WithHasHeader(true).
		WithHeaderStyle(pterm.NewStyle(pterm.FgCyan, pterm.Bold)).
		WithBoxed(false).
		WithWriter(pm.out)
}

// Mode returns the current output mode
func (pm *PTermManager) Mode() types.OutputMode {
	return pm.mode
}
