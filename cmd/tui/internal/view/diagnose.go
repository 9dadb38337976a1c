package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/costline/internal/diagnostics"
)

type diagnoseState int

const (
	diagnoseStateFilePick diagnoseState = iota
	diagnoseStateRunning
	diagnoseStateResult
)

// confidenceFilters cycle with "c"; the empty entry shows every row.
var confidenceFilters = []diagnostics.Confidence{
	"",
	diagnostics.None,
	diagnostics.Low,
	diagnostics.Medium,
	diagnostics.High,
}

type DiagnoseModel struct {
	CommonModel
	diagnosticsService *diagnostics.Service

	state      diagnoseState
	filePicker filepicker.Model
	spinner    spinner.Model
	table      table.Model

	path      string
	report    *diagnostics.Report
	filterIdx int
}

func NewDiagnoseModel(svc *diagnostics.Service) DiagnoseModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".xlsx", ".xlsm", ".csv", ".tsv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DiagnoseModel{
		diagnosticsService: svc,
		filePicker:         fp,
		spinner:            s,
		table: newTable([]table.Column{
			{Title: "Row", Width: 5},
			{Title: "Job", Width: 14},
			{Title: "Name", Width: 28},
			{Title: "Confidence", Width: 10},
			{Title: "Best Candidate", Width: 24},
			{Title: "Reason", Width: 30},
		}),
	}
}

func (m DiagnoseModel) Title() string { return "Diagnose Cost Report" }

func (m DiagnoseModel) ShortHelp() string {
	if m.state == diagnoseStateResult {
		return "Esc: back | c: confidence filter"
	}

	return "Esc: back | Enter: select"
}

func (m DiagnoseModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m DiagnoseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyEsc && m.state == diagnoseStateResult:
			m.state = diagnoseStateFilePick
			m.report = nil
			m.Err = nil

			return m, m.filePicker.Init()
		case keyMsg.Type == tea.KeyEsc && m.state == diagnoseStateFilePick:
			return m, Back
		case keyMsg.String() == "c" && m.state == diagnoseStateResult && m.report != nil:
			m.filterIdx = (m.filterIdx + 1) % len(confidenceFilters)
			m.refreshTable()

			return m, nil
		}
	}

	if res, ok := msg.(diagnoseResultMsg); ok {
		m.state = diagnoseStateResult
		m.report, m.Err = res.report, res.err
		m.filterIdx = 0
		m.refreshTable()

		return m, nil
	}

	var cmd tea.Cmd

	switch m.state {
	case diagnoseStateFilePick:
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.path = path
			m.state = diagnoseStateRunning

			return m, tea.Batch(m.spinner.Tick, m.diagnoseCmd(path))
		}
	case diagnoseStateRunning:
		m.spinner, cmd = m.spinner.Update(msg)
	case diagnoseStateResult:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

func (m *DiagnoseModel) refreshTable() {
	if m.report == nil {
		m.table.SetRows(nil)
		return
	}

	want := confidenceFilters[m.filterIdx]

	matches := lo.Filter(m.report.Matches, func(d diagnostics.Match, _ int) bool {
		return want == "" || d.Confidence() == want
	})

	rows := lo.Map(matches, func(d diagnostics.Match, _ int) table.Row {
		best, reason := "", ""
		if d.Best != nil {
			best, reason = d.Best.Project.Name, d.Best.Reason
		}

		return table.Row{
			fmt.Sprint(d.Row.Number),
			d.Row.JobNumber,
			d.Row.ProjectName,
			string(d.Confidence()),
			best,
			reason,
		}
	})

	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m DiagnoseModel) View() string {
	switch m.state {
	case diagnoseStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select cost report to diagnose:\n\n" + m.filePicker.View(),
		)
	case diagnoseStateRunning:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Diagnosing %s...", m.spinner.View(), filepath.Base(m.path)),
		)
	case diagnoseStateResult:
		return m.viewResult()
	}

	return ""
}

func (m DiagnoseModel) viewResult() string {
	if m.Err != nil {
		return m.ErrorView()
	}

	s := m.report.Summary

	label := "All"
	if f := confidenceFilters[m.filterIdx]; f != "" {
		label = string(f)
	}

	header := fmt.Sprintf(
		"%d rows against %d projects | high %d | medium %d | low %d | none %d\nFilter: [c] Confidence: %s",
		m.report.TotalExcelRows, m.report.TotalRegistryProjects,
		s.High, s.Medium, s.Low, s.None,
		activeStyle(label),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
		),
	)
}

type diagnoseResultMsg struct {
	report *diagnostics.Report
	err    error
}

func (m DiagnoseModel) diagnoseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		buf, err := os.ReadFile(path)
		if err != nil {
			return diagnoseResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()

		report, err := m.diagnosticsService.Diagnose(ctx, buf, diagnostics.Options{})

		return diagnoseResultMsg{report: report, err: err}
	}
}
