package view

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/costline/internal/export"
	"github.com/MrJamesThe3rd/costline/internal/project"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

type snapshotsState int

const (
	snapshotsStateProjects snapshotsState = iota
	snapshotsStateHistory
	snapshotsStateExport
)

type SnapshotsModel struct {
	CommonModel
	projectService  *project.Service
	snapshotService *snapshot.Service
	exportService   *export.Service

	state    snapshotsState
	projects table.Model
	history  table.Model
	form     *huh.Form

	registry []*project.Project
	selected *project.Project
	snaps    []*snapshot.Snapshot

	// path is bound to the export form.
	path    *string
	loading bool
}

func NewSnapshotsModel(projectSvc *project.Service, snapshotSvc *snapshot.Service, exportSvc *export.Service) SnapshotsModel {
	return SnapshotsModel{
		projectService:  projectSvc,
		snapshotService: snapshotSvc,
		exportService:   exportSvc,
		projects: newTable([]table.Column{
			{Title: "Project", Width: 30},
			{Title: "Code", Width: 14},
			{Title: "Aliases", Width: 40},
		}),
		history: newTable([]table.Column{
			{Title: "Week", Width: 12},
			{Title: "Budget", Width: 14},
			{Title: "Forecast", Width: 14},
			{Title: "Actual", Width: 14},
			{Title: "Committed", Width: 14},
			{Title: "Spent", Width: 14},
			{Title: "Variance", Width: 14},
			{Title: "Match", Width: 8},
			{Title: "Source", Width: 24},
		}),
		path:    new(""),
		loading: true,
	}
}

func (m SnapshotsModel) Title() string { return "Snapshot History" }

func (m SnapshotsModel) ShortHelp() string {
	switch m.state {
	case snapshotsStateHistory:
		return "Esc: projects | x: export xlsx | r: refresh"
	case snapshotsStateExport:
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: show history | r: refresh"
}

func (m SnapshotsModel) Init() tea.Cmd {
	return m.loadProjectsCmd()
}

func (m SnapshotsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProjectsMsg:
		m.loading = false
		m.Err = msg.err
		m.registry = msg.projects
		m.refreshProjects()

		return m, nil

	case loadSnapshotsMsg:
		m.loading = false
		m.Err = msg.err
		m.snaps = msg.snaps
		m.refreshHistory()

		return m, nil

	case exportDoneMsg:
		m.state = snapshotsStateHistory
		m.form = nil
		m.history.Focus()

		if msg.err != nil {
			m.Status = fmt.Sprintf("Error exporting: %v", msg.err)
		} else {
			m.Status = fmt.Sprintf("Wrote %d snapshots to %s", msg.count, msg.path)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.projects.SetHeight(msg.Height - 10)
		m.history.SetHeight(msg.Height - 10)

		return m, nil
	}

	switch m.state {
	case snapshotsStateProjects:
		return m.updateProjects(msg)
	case snapshotsStateHistory:
		return m.updateHistory(msg)
	case snapshotsStateExport:
		return m.updateExport(msg)
	}

	return m, nil
}

func (m SnapshotsModel) updateProjects(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadProjectsCmd()
		case "enter":
			idx := m.projects.Cursor()
			if idx < 0 || idx >= len(m.registry) {
				return m, nil
			}

			m.selected = m.registry[idx]
			m.state = snapshotsStateHistory
			m.Status = ""
			m.loading = true

			return m, m.loadSnapshotsCmd()
		}
	}

	var cmd tea.Cmd
	m.projects, cmd = m.projects.Update(msg)

	return m, cmd
}

func (m SnapshotsModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = snapshotsStateProjects
			m.snaps = nil
			m.Status = ""

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadSnapshotsCmd()
		case "x":
			*m.path = filepath.Join(".", "exports", slug(m.selected.Name)+".xlsx")
			m.form = m.buildExportForm()
			m.state = snapshotsStateExport
			m.history.Blur()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)

	return m, cmd
}

func (m SnapshotsModel) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = snapshotsStateHistory
		m.form = nil
		m.history.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.exportCmd(*m.path)
}

func (m SnapshotsModel) buildExportForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output File").
				Description("Directory will be created if it doesn't exist").
				Value(m.path).
				Validate(func(s string) error {
					if !strings.HasSuffix(strings.ToLower(s), ".xlsx") {
						return fmt.Errorf("file must end in .xlsx")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SnapshotsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.Err != nil {
		return m.ErrorView()
	}

	var content string

	switch m.state {
	case snapshotsStateProjects:
		content = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(
				fmt.Sprintf("Registry: %s projects", activeStyle(fmt.Sprint(len(m.registry)))),
			),
			bordered(m.projects.View()),
		)
	case snapshotsStateHistory, snapshotsStateExport:
		content = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(
				fmt.Sprintf("%s | %d weeks", activeStyle(m.selected.Name), len(m.snaps)),
			),
			bordered(m.history.View()),
		)

		if m.state == snapshotsStateExport && m.form != nil {
			panel := lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(54).
				Render("Export History\n\n" + m.form.View())

			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(m.WithStatus(content))
}

func bordered(s string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(s)
}

func (m *SnapshotsModel) refreshProjects() {
	rows := make([]table.Row, 0, len(m.registry))
	for _, p := range m.registry {
		rows = append(rows, table.Row{p.Name, p.Code, strings.Join(p.Aliases, ", ")})
	}

	m.projects.SetRows(rows)
}

func (m *SnapshotsModel) refreshHistory() {
	rows := make([]table.Row, 0, len(m.snaps))
	for _, s := range m.snaps {
		match := s.MatchType
		if s.Ambiguous {
			match += "*"
		}

		rows = append(rows, table.Row{
			FormatDate(s.PeriodStart),
			FormatAmount(s.Budget),
			FormatAmount(s.Forecast),
			FormatAmount(s.Actual),
			FormatAmount(s.Committed),
			FormatAmount(s.Spent),
			FormatAmount(s.Variance),
			match,
			s.SourceFile,
		})
	}

	m.history.SetRows(rows)
	m.history.GotoTop()
}

func slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// Messages

type loadProjectsMsg struct {
	projects []*project.Project
	err      error
}

func (m SnapshotsModel) loadProjectsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		projects, err := m.projectService.List(ctx)

		return loadProjectsMsg{projects: projects, err: err}
	}
}

type loadSnapshotsMsg struct {
	snaps []*snapshot.Snapshot
	err   error
}

func (m SnapshotsModel) loadSnapshotsCmd() tea.Cmd {
	id := m.selected.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		snaps, err := m.snapshotService.List(ctx, snapshot.ListFilter{ProjectID: id})

		return loadSnapshotsMsg{snaps: snaps, err: err}
	}
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

func (m SnapshotsModel) exportCmd(path string) tea.Cmd {
	id := m.selected.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var buf bytes.Buffer

		n, err := m.exportService.Export(ctx, snapshot.ListFilter{ProjectID: id}, &buf)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return exportDoneMsg{err: fmt.Errorf("creating directory: %w", err)}
		}

		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("writing %s: %w", path, err)}
		}

		return exportDoneMsg{path: path, count: n}
	}
}
