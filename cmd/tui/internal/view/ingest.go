package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/project"
)

const ingestTimeout = 2 * time.Minute

type ingestState int

const (
	ingestStateSettings ingestState = iota
	ingestStateFilePick
	ingestStateIngesting
	ingestStateResult
)

// ingestSettings lives behind a pointer so the form keeps writing to the
// same values while the model is copied between updates.
type ingestSettings struct {
	period Period
	dryRun bool
	sheet  string
}

type IngestModel struct {
	CommonModel
	ingestService *ingest.Service

	state      ingestState
	settings   *ingestSettings
	form       *huh.Form
	filePicker filepicker.Model
	spinner    spinner.Model
	table      table.Model

	path   string
	result *ingest.Result
}

func NewIngestModel(svc *ingest.Service) IngestModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".xlsx", ".xlsm", ".csv", ".tsv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := IngestModel{
		ingestService: svc,
		settings:      &ingestSettings{period: PeriodLastWeek},
		filePicker:    fp,
		spinner:       s,
		table:         newTable(matchColumns()),
	}
	m.form = m.buildSettingsForm()

	return m
}

func (m IngestModel) Title() string { return "Ingest Cost Report" }

func (m IngestModel) ShortHelp() string {
	switch m.state {
	case ingestStateResult:
		return "↑/↓: scroll rows | Esc: back"
	case ingestStateIngesting:
		return "Ingesting..."
	}

	return "Esc: back | Enter: select"
}

func (m IngestModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m IngestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.handleEsc()
	}

	if res, ok := msg.(ingestResultMsg); ok {
		m.state = ingestStateResult
		m.result, m.Err = res.result, res.err

		if res.result != nil {
			m.table.SetRows(matchRows(res.result))
		}

		return m, nil
	}

	switch m.state {
	case ingestStateSettings:
		return m.updateSettings(msg)
	case ingestStateFilePick:
		return m.updateFilePick(msg)
	case ingestStateIngesting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case ingestStateResult:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m IngestModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case ingestStateFilePick, ingestStateResult:
		m.state = ingestStateSettings
		m.result = nil
		m.Err = nil
		m.form = m.buildSettingsForm()

		return m, m.form.Init()
	case ingestStateIngesting:
		return m, nil
	}

	return m, Back
}

func (m IngestModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = ingestStateFilePick

	return m, m.filePicker.Init()
}

func (m IngestModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = ingestStateIngesting

		return m, tea.Batch(m.spinner.Tick, m.ingestCmd(path))
	}

	return m, cmd
}

func (m IngestModel) buildSettingsForm() *huh.Form {
	now := time.Now()

	periods := []Period{PeriodThisWeek, PeriodLastWeek, PeriodTwoWeeksAgo, PeriodThreeWeeksAgo}
	options := lo.Map(periods, func(p Period, _ int) huh.Option[Period] {
		return huh.NewOption(fmt.Sprintf("%s (%s)", p, PeriodLabel(p.Start(now))), p)
	})

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Period]().
				Key("period").
				Title("Reporting Week").
				Options(options...).
				Value(&m.settings.period),

			huh.NewInput().
				Key("sheet").
				Title("Worksheet").
				Placeholder("first sheet").
				Value(&m.settings.sheet),

			huh.NewConfirm().
				Key("dry_run").
				Title("Dry run?").
				Description("Match and aggregate without writing snapshots").
				Value(&m.settings.dryRun),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m IngestModel) View() string {
	switch m.state {
	case ingestStateSettings:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case ingestStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select cost report for %s:\n\n%s",
				activeStyle(PeriodLabel(m.settings.period.Start(time.Now()))), m.filePicker.View()),
		)
	case ingestStateIngesting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Ingesting %s...", m.spinner.View(), filepath.Base(m.path)),
		)
	case ingestStateResult:
		return m.viewResult()
	}

	return ""
}

func (m IngestModel) viewResult() string {
	if m.Err != nil {
		return m.ErrorView()
	}

	s := m.result.Summary

	title := "Snapshots Written"
	if s.DryRun {
		title = "Dry Run Complete"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render(title)

	lines := []string{
		fmt.Sprintf("Rows: %d parsed, %d skipped of %d", s.TotalRows, s.SkippedRows, s.TotalExcelRows),
		fmt.Sprintf("Matched: %d projects (%d rows via project number), %d unmatched rows",
			s.MatchedProjects, s.MatchedByIdentifier, s.Unmatched),
		fmt.Sprintf("Financial columns: %s", strings.Join(s.FinancialColumns, ", ")),
		fmt.Sprintf("Snapshots written: %d", s.ProjectsUpdated),
	}

	for _, w := range s.Warnings {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("! "+w))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			strings.Join(lines, "\n"),
			"",
			tableView,
		),
	)
}

type ingestResultMsg struct {
	result *ingest.Result
	err    error
}

func (m IngestModel) ingestCmd(path string) tea.Cmd {
	settings := *m.settings

	return func() tea.Msg {
		buf, err := os.ReadFile(path)
		if err != nil {
			return ingestResultMsg{err: err}
		}

		opts := ingest.Options{
			DryRun:         settings.dryRun,
			SourceFileName: filepath.Base(path),
			SheetName:      strings.TrimSpace(settings.sheet),
		}

		if !settings.dryRun {
			opts.PeriodStart = new(settings.period.Start(time.Now()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()

		result, err := m.ingestService.Ingest(ctx, buf, opts)

		return ingestResultMsg{result: result, err: err}
	}
}

func matchColumns() []table.Column {
	return []table.Column{
		{Title: "Row", Width: 5},
		{Title: "Job", Width: 14},
		{Title: "Project #", Width: 16},
		{Title: "Name", Width: 28},
		{Title: "Match", Width: 8},
		{Title: "Projects", Width: 30},
	}
}

// matchRows lists matched rows first, then the unmatched ones.
func matchRows(res *ingest.Result) []table.Row {
	rows := make([]table.Row, 0, len(res.Rows)+len(res.UnmatchedRows))

	for _, r := range res.Rows {
		names := lo.Map(r.Match.Projects, func(p *project.Project, _ int) string { return p.Name })

		rows = append(rows, table.Row{
			fmt.Sprint(r.Number),
			r.JobNumber,
			r.ProjectIdentifier,
			r.ProjectName,
			string(r.Match.Type),
			strings.Join(names, ", "),
		})
	}

	for _, r := range res.UnmatchedRows {
		rows = append(rows, table.Row{
			fmt.Sprint(r.Number),
			r.JobNumber,
			r.ProjectIdentifier,
			r.ProjectName,
			"none",
			"",
		})
	}

	return rows
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}
