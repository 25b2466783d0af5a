package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hxmtool/hxm/pkg/errors"
	"github.com/hxmtool/hxm/pkg/installer"
	"github.com/hxmtool/hxm/pkg/status"
)

var (
	choiceSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	choiceNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// conflictChoice is one selectable resolution.
type conflictChoice struct {
	resolution installer.Resolution
	label      string
}

var conflictChoices = []conflictChoice{
	{installer.ResolutionStash, "Stash changes, update, restore them"},
	{installer.ResolutionDiscard, "Discard changes and update"},
	{installer.ResolutionCommit, "Commit changes, then update"},
	{installer.ResolutionSkip, "Skip this dependency"},
}

// =============================================================================
// ConflictModel - Interactive resolution selection
// =============================================================================

// ConflictModel is the bubbletea model for picking a conflict resolution.
type ConflictModel struct {
	Status *status.InstallStatus
	Diff   string
	Cursor int
	Chosen bool
}

// NewConflictModel creates a conflict chooser for one dependency.
func NewConflictModel(st *status.InstallStatus, diff string) ConflictModel {
	return ConflictModel{Status: st, Diff: diff}
}

func (m ConflictModel) Init() tea.Cmd {
	return nil
}

func (m ConflictModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(conflictChoices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConflictModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Local changes in %s", m.Status.Dep.Name)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("wanted %s, installed %s", m.Status.Wanted, m.Status.Installed)))
	b.WriteString("\n\n")
	if m.Diff != "" {
		b.WriteString(styleDim.Render(m.Diff))
		b.WriteString("\n\n")
	}

	for i, choice := range conflictChoices {
		cursor := "  "
		style := choiceNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = choiceSelectedStyle
		}
		b.WriteString(cursor + style.Render(choice.label) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  ⏎ select  q skip"))
	b.WriteString("\n")
	return b.String()
}

// Resolution returns the chosen resolution; quitting without choosing
// skips, matching the anything-unrecognized-skips rule.
func (m ConflictModel) Resolution() installer.Resolution {
	if !m.Chosen {
		return installer.ResolutionSkip
	}
	return conflictChoices[m.Cursor].resolution
}

// =============================================================================
// terminalResolver - installer.ConflictResolver on the controlling terminal
// =============================================================================

// terminalResolver runs the conflict chooser and reads commit messages
// from stdin. One interaction per conflicted dependency.
type terminalResolver struct {
	stdin *bufio.Reader
}

func newTerminalResolver() *terminalResolver {
	return &terminalResolver{stdin: bufio.NewReader(os.Stdin)}
}

func (r *terminalResolver) Resolve(ctx context.Context, st *status.InstallStatus, diff string) (installer.Resolution, error) {
	model := NewConflictModel(st, diff)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return installer.ResolutionSkip, errors.Wrap(errors.ErrCodeInput, err, "%s: conflict prompt", st.Dep.Name)
	}
	return final.(ConflictModel).Resolution(), nil
}

func (r *terminalResolver) CommitMessage(ctx context.Context, st *status.InstallStatus) (string, error) {
	fmt.Printf("Commit message for %s: ", st.Dep.Name)
	line, err := r.stdin.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInput, err, "%s: reading commit message", st.Dep.Name)
	}
	return strings.TrimSpace(line), nil
}
