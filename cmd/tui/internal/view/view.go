package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views. It holds the failure that replaces a
// screen and the one-line status shown above it.
type CommonModel struct {
	Err    error
	Status string
}

// ErrorView renders Err full screen. It returns "" when there is no error.
func (c CommonModel) ErrorView() string {
	if c.Err == nil {
		return ""
	}

	return lipgloss.NewStyle().Padding(2).Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: "+c.Err.Error()) +
			"\n\n(Esc to go back)",
	)
}

// WithStatus prefixes content with the faint status line, if any.
func (c CommonModel) WithStatus(content string) string {
	if c.Status == "" {
		return content
	}

	return lipgloss.NewStyle().Faint(true).Render(c.Status) + "\n" + content
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
