package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/costline/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/costline/internal/config"
	"github.com/MrJamesThe3rd/costline/internal/database"
	"github.com/MrJamesThe3rd/costline/internal/diagnostics"
	"github.com/MrJamesThe3rd/costline/internal/export"
	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/project"
	projectStore "github.com/MrJamesThe3rd/costline/internal/project/store"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
	snapshotStore "github.com/MrJamesThe3rd/costline/internal/snapshot/store"
)

type model struct {
	projectService     *project.Service
	snapshotService    *snapshot.Service
	ingestService      *ingest.Service
	diagnosticsService *diagnostics.Service
	exportService      *export.Service

	currentView View

	ingestView    view.IngestModel
	diagnoseView  view.DiagnoseModel
	snapshotsView view.SnapshotsModel
}

type View int

const (
	ViewMenu      View = 0
	ViewIngest    View = 1
	ViewDiagnose  View = 2
	ViewSnapshots View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	hints := ingest.Hints{
		Job:       cfg.Ingest.JobHints,
		Name:      cfg.Ingest.NameHints,
		Financial: cfg.Ingest.FinancialHints,
	}

	projectSvc := project.NewService(projectStore.New(db))
	snapshotSvc := snapshot.NewService(snapshotStore.New(db))
	ingestSvc := ingest.NewService(projectSvc, snapshotSvc, hints)
	diagnosticsSvc := diagnostics.NewService(projectSvc, hints)
	exportSvc := export.NewService(snapshotSvc)

	return model{
		projectService:     projectSvc,
		snapshotService:    snapshotSvc,
		ingestService:      ingestSvc,
		diagnosticsService: diagnosticsSvc,
		exportService:      exportSvc,
		currentView:        ViewMenu,
		ingestView:         view.NewIngestModel(ingestSvc),
		diagnoseView:       view.NewDiagnoseModel(diagnosticsSvc),
		snapshotsView:      view.NewSnapshotsModel(projectSvc, snapshotSvc, exportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewIngest
				m.ingestView = view.NewIngestModel(m.ingestService)

				return m, m.ingestView.Init()
			case "2":
				m.currentView = ViewDiagnose
				m.diagnoseView = view.NewDiagnoseModel(m.diagnosticsService)

				return m, m.diagnoseView.Init()
			case "3":
				m.currentView = ViewSnapshots
				m.snapshotsView = view.NewSnapshotsModel(m.projectService, m.snapshotService, m.exportService)

				return m, m.snapshotsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewIngest:
		var newModel tea.Model
		newModel, cmd = m.ingestView.Update(msg)
		m.ingestView = newModel.(view.IngestModel)
	case ViewDiagnose:
		var newModel tea.Model
		newModel, cmd = m.diagnoseView.Update(msg)
		m.diagnoseView = newModel.(view.DiagnoseModel)
	case ViewSnapshots:
		var newModel tea.Model
		newModel, cmd = m.snapshotsView.Update(msg)
		m.snapshotsView = newModel.(view.SnapshotsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Costline TUI\n\n" +
				"1. Ingest Cost Report\n" +
				"2. Diagnose Cost Report\n" +
				"3. Snapshot History\n\n" +
				"q. Quit",
		)
	case ViewIngest:
		return m.ingestView.View()
	case ViewDiagnose:
		return m.diagnoseView.View()
	case ViewSnapshots:
		return m.snapshotsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
