package usecase

import (
	"context"

	"walkread/internal/modules/progress/domain"
	"walkread/internal/modules/progress/dto"
	progressin "walkread/internal/modules/progress/port/in"
	progressout "walkread/internal/modules/progress/port/out"
	"walkread/internal/modules/progress/service"
	apperrors "walkread/internal/platform/errors"
)

type Interactor struct {
	svc         *service.ProgressService
	currentBook progressout.CurrentBookStore
}

func NewInteractor(svc *service.ProgressService, currentBook progressout.CurrentBookStore) progressin.Usecase {
	return &Interactor{svc: svc, currentBook: currentBook}
}

// StartReading begins accrual for a book and records the resume pointer.
func (i *Interactor) StartReading(ctx context.Context, input dto.StartInput) (dto.ProgressOutput, error) {
	progress, err := i.svc.StartReading(ctx, input.BookID, input.BookTitle, input.TotalCharacters)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	_ = i.currentBook.SaveCurrent(ctx, input.BookID)
	return toOutput(progress), nil
}

func (i *Interactor) UpdateProgress(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	progress, err := i.svc.UpdateProgress(ctx, bookID)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toOutput(progress), nil
}

func (i *Interactor) UpdateAllBooks(ctx context.Context) {
	i.svc.UpdateAllBooks(ctx)
}

// StopReading finishes the active reading. When the process has no transient
// pointer (fresh start), it falls back to the persisted resume pointer.
func (i *Interactor) StopReading(ctx context.Context) error {
	if i.svc.CurrentReading() == nil {
		bookID, err := i.currentBook.LoadCurrent(ctx)
		if err != nil {
			return err
		}
		if _, err := i.svc.UpdateProgress(ctx, bookID); err != nil && err != apperrors.ErrNotFound {
			return err
		}
		return i.currentBook.ClearCurrent(ctx)
	}
	i.svc.StopReading(ctx)
	return i.currentBook.ClearCurrent(ctx)
}

// ResumeBookID reports the persisted resume pointer, if any.
func (i *Interactor) ResumeBookID(ctx context.Context) (string, error) {
	return i.currentBook.LoadCurrent(ctx)
}

func (i *Interactor) CurrentReading() *dto.CurrentReadingOutput {
	current := i.svc.CurrentReading()
	if current == nil {
		return nil
	}
	return &dto.CurrentReadingOutput{
		BookID:         current.BookID,
		StartStepCount: current.StartStepCount,
		StartTime:      current.StartTime,
	}
}

func (i *Interactor) BookProgress(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	progress, err := i.svc.BookProgress(ctx, bookID)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toOutput(progress), nil
}

func (i *Interactor) AllBooksProgress(ctx context.Context) []dto.ProgressOutput {
	records := i.svc.AllBooksProgress(ctx)
	out := make([]dto.ProgressOutput, 0, len(records))
	for _, record := range records {
		out = append(out, toOutput(record))
	}
	return out
}

func (i *Interactor) TotalStepsForBook(ctx context.Context, bookID string) int {
	return i.svc.TotalStepsForBook(ctx, bookID)
}

func (i *Interactor) TotalUsedStepsToday(ctx context.Context) int {
	return i.svc.TotalUsedStepsToday(ctx)
}

func (i *Interactor) Stats(ctx context.Context, bookID string) (dto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx, bookID)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return dto.StatsOutput{
		TotalSteps:      stats.TotalSteps,
		UnlockedChars:   stats.UnlockedChars,
		TotalChars:      stats.TotalChars,
		ProgressPercent: stats.ProgressPercent,
		LastUpdated:     stats.LastUpdated,
	}, nil
}

func (i *Interactor) SaveBookProgress(ctx context.Context, record dto.ProgressOutput) error {
	return i.svc.SaveBookProgress(ctx, domain.ReadingProgress{
		BookID:             record.BookID,
		BookTitle:          record.BookTitle,
		LastStepCount:      record.LastStepCount,
		AccumulatedSteps:   record.AccumulatedSteps,
		UnlockedCharacters: record.UnlockedCharacters,
		TotalCharacters:    record.TotalCharacters,
		LastUpdated:        record.LastUpdated,
		CreatedAt:          record.CreatedAt,
	})
}

func (i *Interactor) ReconcileCatalog(ctx context.Context, entries []dto.CatalogEntry) {
	converted := make([]domain.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		converted = append(converted, domain.CatalogEntry{
			BookID:          entry.BookID,
			Title:           entry.Title,
			TotalCharacters: entry.TotalCharacters,
		})
	}
	i.svc.ReconcileCatalog(ctx, converted)
}

func (i *Interactor) DailyTracker(ctx context.Context) dto.TrackerOutput {
	tracker := i.svc.DailyTracker(ctx)
	return dto.TrackerOutput{
		Date:            tracker.Date,
		BaseStepCount:   tracker.BaseStepCount,
		TotalDailySteps: tracker.TotalDailySteps,
		UsedSteps:       tracker.UsedSteps,
		LastUpdated:     tracker.LastUpdated,
	}
}

func (i *Interactor) Reindex(ctx context.Context) error {
	return i.svc.Reindex(ctx)
}

func toOutput(progress domain.ReadingProgress) dto.ProgressOutput {
	return dto.ProgressOutput{
		BookID:             progress.BookID,
		BookTitle:          progress.BookTitle,
		LastStepCount:      progress.LastStepCount,
		AccumulatedSteps:   progress.AccumulatedSteps,
		UnlockedCharacters: progress.UnlockedCharacters,
		TotalCharacters:    progress.TotalCharacters,
		LastUpdated:        progress.LastUpdated,
		CreatedAt:          progress.CreatedAt,
	}
}
