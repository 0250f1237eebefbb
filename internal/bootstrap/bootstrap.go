package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	cataloginadapter "walkread/internal/modules/catalog/adapter/in"
	catalogoutadapter "walkread/internal/modules/catalog/adapter/out"
	catalogservice "walkread/internal/modules/catalog/service"
	catalogusecase "walkread/internal/modules/catalog/usecase"
	healthinadapter "walkread/internal/modules/health/adapter/in"
	healthoutadapter "walkread/internal/modules/health/adapter/out"
	healthservice "walkread/internal/modules/health/service"
	healthusecase "walkread/internal/modules/health/usecase"
	progressinadapter "walkread/internal/modules/progress/adapter/in"
	progressoutadapter "walkread/internal/modules/progress/adapter/out"
	progressdto "walkread/internal/modules/progress/dto"
	progressservice "walkread/internal/modules/progress/service"
	progressusecase "walkread/internal/modules/progress/usecase"
	"walkread/internal/platform/clock"
	"walkread/internal/platform/config"
	"walkread/internal/platform/id"
	"walkread/internal/platform/logging"
	uiapp "walkread/internal/ui/app"
)

type App struct {
	ProgressCLI progressinadapter.CLIHandler
	HealthCLI   healthinadapter.CLIHandler
	CatalogCLI  *cataloginadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}
	log := logging.New("walkread")

	manifests := healthoutadapter.NewFileManifestStore(cfg.DataPath, cfg.ProvidersPath)
	host := healthoutadapter.NewGRPCHost(log.Named("provider"))
	healthSvc := healthservice.NewStepService(clk, manifests, host, log.Named("health"))
	healthUC := healthusecase.NewInteractor(healthSvc)

	stateStore := progressoutadapter.NewFileStateStore(cfg.StatePath)
	projector, err := progressoutadapter.NewSQLiteProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new progress projector: %w", err)
	}
	stepSource := progressoutadapter.NewHealthStepSource(healthUC)
	progressSvc := progressservice.NewProgressService(clk, stateStore, stepSource, projector, log.Named("progress"))
	currentBook := progressoutadapter.NewFileCurrentBookStore(cfg.StatePath)
	progressUC := progressusecase.NewInteractor(progressSvc, currentBook)

	shelf := catalogoutadapter.NewYAMLShelfStore(cfg.ShelfPath)
	catalogSvc := catalogservice.NewCatalogService(
		ids,
		shelf,
		catalogoutadapter.NewTextExtractor(),
		catalogoutadapter.NewPDFExtractor(),
		catalogoutadapter.NewFileContentStore(cfg.ContentPath),
	)
	catalogUC := catalogusecase.NewInteractor(catalogSvc)

	return &App{
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		HealthCLI:   healthinadapter.NewCLIHandler(healthUC),
		CatalogCLI:  cataloginadapter.NewCLIHandler(catalogUC),
	}, nil
}

// SyncCatalog pushes the shelf's titles and capacities into the progress
// ledger so renamed or re-imported books keep their accrued steps.
func (a *App) SyncCatalog(ctx context.Context) error {
	books, err := a.CatalogCLI.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("load shelf: %w", err)
	}
	entries := make([]progressdto.CatalogEntry, 0, len(books))
	for _, book := range books {
		entries = append(entries, progressdto.CatalogEntry{
			BookID:          book.ID,
			Title:           book.Title,
			TotalCharacters: book.TotalCharacters,
		})
	}
	a.ProgressCLI.ReconcileCatalog(ctx, entries)
	return nil
}

func RunTUI(dataPath string, app *App) error {
	model := uiapp.NewModel(dataPath, app.CatalogCLI, app.ProgressCLI, app.HealthCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
