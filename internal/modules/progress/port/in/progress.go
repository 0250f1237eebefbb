package in

import (
	"context"

	"walkread/internal/modules/progress/dto"
)

type Usecase interface {
	StartReading(ctx context.Context, input dto.StartInput) (dto.ProgressOutput, error)
	UpdateProgress(ctx context.Context, bookID string) (dto.ProgressOutput, error)
	UpdateAllBooks(ctx context.Context)
	StopReading(ctx context.Context) error
	CurrentReading() *dto.CurrentReadingOutput
	ResumeBookID(ctx context.Context) (string, error)
	BookProgress(ctx context.Context, bookID string) (dto.ProgressOutput, error)
	AllBooksProgress(ctx context.Context) []dto.ProgressOutput
	TotalStepsForBook(ctx context.Context, bookID string) int
	TotalUsedStepsToday(ctx context.Context) int
	Stats(ctx context.Context, bookID string) (dto.StatsOutput, error)
	SaveBookProgress(ctx context.Context, record dto.ProgressOutput) error
	ReconcileCatalog(ctx context.Context, entries []dto.CatalogEntry)
	DailyTracker(ctx context.Context) dto.TrackerOutput
	Reindex(ctx context.Context) error
}
