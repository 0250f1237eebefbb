package in

import (
	"context"

	"walkread/internal/modules/progress/dto"
	progressin "walkread/internal/modules/progress/port/in"
)

// CLIHandler adapts progress use cases for the command layer and the TUI.
type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StartReading(ctx context.Context, bookID, bookTitle string, totalCharacters int) (dto.ProgressOutput, error) {
	return h.usecase.StartReading(ctx, dto.StartInput{
		BookID:          bookID,
		BookTitle:       bookTitle,
		TotalCharacters: totalCharacters,
	})
}

func (h CLIHandler) UpdateProgress(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	return h.usecase.UpdateProgress(ctx, bookID)
}

func (h CLIHandler) UpdateAllBooks(ctx context.Context) {
	h.usecase.UpdateAllBooks(ctx)
}

func (h CLIHandler) StopReading(ctx context.Context) error {
	return h.usecase.StopReading(ctx)
}

func (h CLIHandler) ResumeBookID(ctx context.Context) (string, error) {
	return h.usecase.ResumeBookID(ctx)
}

func (h CLIHandler) BookProgress(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	return h.usecase.BookProgress(ctx, bookID)
}

func (h CLIHandler) AllBooksProgress(ctx context.Context) []dto.ProgressOutput {
	return h.usecase.AllBooksProgress(ctx)
}

func (h CLIHandler) Stats(ctx context.Context, bookID string) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, bookID)
}

func (h CLIHandler) TotalStepsForBook(ctx context.Context, bookID string) int {
	return h.usecase.TotalStepsForBook(ctx, bookID)
}

func (h CLIHandler) TotalUsedStepsToday(ctx context.Context) int {
	return h.usecase.TotalUsedStepsToday(ctx)
}

func (h CLIHandler) DailyTracker(ctx context.Context) dto.TrackerOutput {
	return h.usecase.DailyTracker(ctx)
}

func (h CLIHandler) ReconcileCatalog(ctx context.Context, entries []dto.CatalogEntry) {
	h.usecase.ReconcileCatalog(ctx, entries)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx)
}
