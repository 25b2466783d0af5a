package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hxmtool/hxm/pkg/lock"
	"github.com/hxmtool/hxm/pkg/status"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleName    = lipgloss.NewStyle().Foreground(colorCyan).Width(24)
	styleKind    = lipgloss.NewStyle().Foreground(colorGray).Width(9)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleWarning.Render(iconWarning) + " " + styleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleDim.Render(iconInfo) + " " + msg)
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + styleDim.Render(msg))
}

// =============================================================================
// Dependency Rendering
// =============================================================================

// printStatus renders one reconciliation result.
func printStatus(st *status.InstallStatus) {
	var icon string
	var stateStyle lipgloss.Style
	switch st.State {
	case status.AlreadyInstalled:
		icon, stateStyle = iconSuccess, styleSuccess
	case status.Conflict:
		icon, stateStyle = iconError, styleError
	case status.NotLocked:
		icon, stateStyle = iconWarning, styleWarning
	default:
		icon, stateStyle = iconWarning, styleWarning
	}

	line := stateStyle.Render(icon) + " " +
		styleName.Render(st.Dep.Name) +
		stateStyle.Render(st.State.String())
	if st.Installed != "" && st.Installed != st.Wanted {
		line += styleDim.Render(" installed=") + styleValue.Render(st.Installed)
	}
	if st.Wanted != "" {
		line += styleDim.Render(" wanted=") + styleValue.Render(st.Wanted)
	}
	fmt.Println(line)
}

// printDependency renders one manifest entry for list output.
func printDependency(name, kind, pin string) {
	line := "  " + styleName.Render(name) + styleKind.Render(kind)
	if pin != "" {
		line += styleValue.Render(pin)
	} else {
		line += styleDim.Render("(unpinned)")
	}
	fmt.Println(line)
}

// printLockResult renders one lock outcome.
func printLockResult(res lock.Result) {
	switch res.Action {
	case lock.ActionLocked:
		printSuccess("%s locked to %s", res.Name, styleValue.Render(res.Detail))
	case lock.ActionAlreadyLocked:
		printInfo("%s already locked to %s", res.Name, res.Detail)
	case lock.ActionSkipped:
		printInfo("%s skipped: %s", res.Name, res.Detail)
	case lock.ActionErrored:
		printError("%s: %s", res.Name, res.Detail)
	}
}
