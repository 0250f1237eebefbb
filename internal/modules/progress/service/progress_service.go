package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"walkread/internal/modules/progress/domain"
	progressout "walkread/internal/modules/progress/port/out"
	"walkread/internal/platform/clock"
	apperrors "walkread/internal/platform/errors"
)

// A step jump this large, this long after the last update, is almost
// certainly accrual catching up after an app restart. Logged, not handled.
const (
	catchupStepThreshold = 1000
	catchupAgeThreshold  = time.Hour
)

// ProgressService owns every transition of the per-book ledger. It holds no
// authoritative cache: each operation reads the state store fresh. The only
// in-memory state is the transient current-reading pointer.
//
// Underlying failures are absorbed here: a failed store read counts as
// "record absent", a failed write is logged and costs at most one accrual
// cycle, and the step source cannot fail by contract.
type ProgressService struct {
	clock     clock.Clock
	store     progressout.StateStore
	steps     progressout.StepSource
	projector progressout.Projector
	log       hclog.Logger

	mu      sync.Mutex
	current *domain.CurrentReading
}

func NewProgressService(clk clock.Clock, store progressout.StateStore, steps progressout.StepSource, projector progressout.Projector, log hclog.Logger) *ProgressService {
	return &ProgressService{clock: clk, store: store, steps: steps, projector: projector, log: log}
}

// StartReading creates the ledger record on first contact with a book. For a
// known book it only re-baselines lastStepCount so the next update measures
// genuinely new steps; accumulated progress is neither granted nor revoked.
func (s *ProgressService) StartReading(ctx context.Context, bookID, bookTitle string, totalCharacters int) (domain.ReadingProgress, error) {
	if strings.TrimSpace(bookID) == "" {
		return domain.ReadingProgress{}, apperrors.ErrInvalidInput
	}
	if totalCharacters < 0 {
		return domain.ReadingProgress{}, apperrors.ErrInvalidInput
	}

	currentSteps := s.steps.TodaySteps(ctx)
	now := s.clock.Now()

	progress, found := s.loadProgress(ctx, bookID)
	if !found {
		progress = domain.ReadingProgress{
			BookID:             bookID,
			BookTitle:          bookTitle,
			LastStepCount:      currentSteps,
			AccumulatedSteps:   currentSteps,
			UnlockedCharacters: min(currentSteps, totalCharacters),
			TotalCharacters:    totalCharacters,
			LastUpdated:        now,
			CreatedAt:          now,
		}
	} else {
		progress.LastStepCount = currentSteps
		progress.LastUpdated = now
	}
	s.persist(ctx, progress)

	s.mu.Lock()
	s.current = &domain.CurrentReading{BookID: bookID, StartStepCount: currentSteps, StartTime: now}
	s.mu.Unlock()

	return progress, nil
}

// UpdateProgress credits steps observed since the last accrual. On a calendar
// date change the whole current-day count is credited: the counter resets at
// midnight at the source, so yesterday's baseline is not comparable. Within a
// day the delta is clamped at zero so a lower raw reading never takes
// progress away. A zero delta writes nothing.
func (s *ProgressService) UpdateProgress(ctx context.Context, bookID string) (domain.ReadingProgress, error) {
	progress, found := s.loadProgress(ctx, bookID)
	if !found {
		return domain.ReadingProgress{}, apperrors.ErrNotFound
	}

	currentSteps := s.steps.TodaySteps(ctx)
	now := s.clock.Now()

	var stepIncrease int
	if !clock.SameDay(progress.LastUpdated, now) {
		stepIncrease = currentSteps
		s.log.Debug("date rollover, crediting full day",
			"book", bookID, "from", clock.DateString(progress.LastUpdated), "to", clock.DateString(now), "steps", currentSteps)
	} else {
		stepIncrease = max(0, currentSteps-progress.LastStepCount)
		if stepIncrease > catchupStepThreshold && now.Sub(progress.LastUpdated) > catchupAgeThreshold {
			s.log.Debug("restart catch-up detected",
				"book", bookID, "steps", stepIncrease, "elapsed", now.Sub(progress.LastUpdated).String())
		}
	}

	if stepIncrease > 0 {
		progress.Credit(stepIncrease, currentSteps, now)
		s.persist(ctx, progress)
	}
	return progress, nil
}

// UpdateAllBooks reconciles every ledger record, typically once at process
// start to sweep in steps walked while the app was not running. Books are
// processed sequentially; one book's failure never stops the rest.
func (s *ProgressService) UpdateAllBooks(ctx context.Context) {
	records := s.AllBooksProgress(ctx)
	for _, record := range records {
		if _, err := s.UpdateProgress(ctx, record.BookID); err != nil {
			s.log.Warn("batch update skipped book", "book", record.BookID, "error", err)
		}
	}
}

// StopReading runs one final accrual for the active book and drops the
// transient pointer. No-op when nothing is active.
func (s *ProgressService) StopReading(ctx context.Context) {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()
	if current == nil {
		return
	}
	if _, err := s.UpdateProgress(ctx, current.BookID); err != nil {
		s.log.Warn("final update on stop failed", "book", current.BookID, "error", err)
	}
}

// CurrentReading returns a copy of the transient pointer, or nil.
func (s *ProgressService) CurrentReading() *domain.CurrentReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

func (s *ProgressService) BookProgress(ctx context.Context, bookID string) (domain.ReadingProgress, error) {
	progress, found := s.loadProgress(ctx, bookID)
	if !found {
		return domain.ReadingProgress{}, apperrors.ErrNotFound
	}
	return progress, nil
}

// AllBooksProgress lists every persisted ledger record. Records that fail to
// load or decode are skipped, not surfaced.
func (s *ProgressService) AllBooksProgress(ctx context.Context) []domain.ReadingProgress {
	keys, err := s.store.AllKeys(ctx)
	if err != nil {
		s.log.Warn("list state keys failed", "error", err)
		return nil
	}
	progressKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, domain.BookProgressKeyPrefix) {
			progressKeys = append(progressKeys, key)
		}
	}
	pairs, err := s.store.MultiGet(ctx, progressKeys)
	if err != nil {
		s.log.Warn("multi-get ledger records failed", "error", err)
		return nil
	}
	out := make([]domain.ReadingProgress, 0, len(pairs))
	for _, pair := range pairs {
		if !pair.Found {
			continue
		}
		var progress domain.ReadingProgress
		if err := json.Unmarshal([]byte(pair.Value), &progress); err != nil {
			s.log.Warn("skipping undecodable ledger record", "key", pair.Key, "error", err)
			continue
		}
		out = append(out, progress)
	}
	return out
}

func (s *ProgressService) TotalStepsForBook(ctx context.Context, bookID string) int {
	progress, found := s.loadProgress(ctx, bookID)
	if !found {
		return 0
	}
	return progress.AccumulatedSteps
}

// TotalUsedStepsToday sums accumulated steps over records touched today.
func (s *ProgressService) TotalUsedStepsToday(ctx context.Context) int {
	now := s.clock.Now()
	total := 0
	for _, progress := range s.AllBooksProgress(ctx) {
		if clock.SameDay(progress.LastUpdated, now) {
			total += progress.AccumulatedSteps
		}
	}
	return total
}

func (s *ProgressService) Stats(ctx context.Context, bookID string) (domain.Stats, error) {
	progress, found := s.loadProgress(ctx, bookID)
	if !found {
		return domain.Stats{}, apperrors.ErrNotFound
	}
	percent := 0
	if progress.TotalCharacters > 0 {
		percent = int(float64(progress.UnlockedCharacters)/float64(progress.TotalCharacters)*100 + 0.5)
	}
	return domain.Stats{
		TotalSteps:      progress.AccumulatedSteps,
		UnlockedChars:   progress.UnlockedCharacters,
		TotalChars:      progress.TotalCharacters,
		ProgressPercent: percent,
		LastUpdated:     progress.LastUpdated,
	}, nil
}

// SaveBookProgress overwrites one ledger record wholesale. Callers load,
// patch the fields that drifted, and save; nothing else is disturbed. This is
// the persistence primitive behind catalog corrections.
func (s *ProgressService) SaveBookProgress(ctx context.Context, progress domain.ReadingProgress) error {
	if err := progress.Validate(); err != nil {
		return err
	}
	s.persist(ctx, progress)
	return nil
}

// ReconcileCatalog patches records whose stored title or capacity no longer
// matches the authoritative catalog, re-deriving the unlock count against the
// corrected capacity.
func (s *ProgressService) ReconcileCatalog(ctx context.Context, entries []domain.CatalogEntry) {
	for _, entry := range entries {
		progress, found := s.loadProgress(ctx, entry.BookID)
		if !found {
			continue
		}
		changed := false
		if entry.Title != "" && progress.BookTitle != entry.Title {
			progress.BookTitle = entry.Title
			changed = true
		}
		if entry.TotalCharacters > 0 && progress.TotalCharacters != entry.TotalCharacters {
			progress.TotalCharacters = entry.TotalCharacters
			progress.UnlockedCharacters = min(progress.AccumulatedSteps, progress.TotalCharacters)
			changed = true
		}
		if changed {
			s.log.Info("corrected drifted ledger record", "book", entry.BookID)
			s.persist(ctx, progress)
		}
	}
}

// DailyTracker loads today's tracker, creating it on first access. Accrual
// never reads it; the record exists for schema compatibility.
func (s *ProgressService) DailyTracker(ctx context.Context) domain.DailyStepTracker {
	now := s.clock.Now()
	today := clock.DateString(now)
	key := domain.DailyTrackerKey(today)

	if raw, found, err := s.store.Get(ctx, key); err == nil && found {
		var tracker domain.DailyStepTracker
		if err := json.Unmarshal([]byte(raw), &tracker); err == nil {
			return tracker
		}
		s.log.Warn("undecodable daily tracker, recreating", "date", today)
	} else if err != nil {
		s.log.Warn("load daily tracker failed", "date", today, "error", err)
	}

	currentSteps := s.steps.TodaySteps(ctx)
	tracker := domain.DailyStepTracker{
		Date:             today,
		BaseStepCount:    currentSteps,
		CurrentStepCount: currentSteps,
		TotalDailySteps:  currentSteps,
		UsedSteps:        0,
		LastUpdated:      now,
	}
	if raw, err := json.Marshal(tracker); err == nil {
		if err := s.store.Set(ctx, key, string(raw)); err != nil {
			s.log.Warn("save daily tracker failed", "date", today, "error", err)
		}
	}
	return tracker
}

// Reindex rebuilds the SQLite read model from the state store.
func (s *ProgressService) Reindex(ctx context.Context) error {
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	for _, progress := range s.AllBooksProgress(ctx) {
		if err := s.projector.Upsert(ctx, progress); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgressService) loadProgress(ctx context.Context, bookID string) (domain.ReadingProgress, bool) {
	raw, found, err := s.store.Get(ctx, domain.BookProgressKey(bookID))
	if err != nil {
		s.log.Warn("load ledger record failed, treating as absent", "book", bookID, "error", err)
		return domain.ReadingProgress{}, false
	}
	if !found {
		return domain.ReadingProgress{}, false
	}
	var progress domain.ReadingProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		s.log.Warn("undecodable ledger record, treating as absent", "book", bookID, "error", err)
		return domain.ReadingProgress{}, false
	}
	return progress, true
}

// persist writes the record to the state store and refreshes the projection.
// Both failures are absorbed: the computed values for this cycle are lost,
// and the next successful update re-measures from the last persisted
// baseline.
func (s *ProgressService) persist(ctx context.Context, progress domain.ReadingProgress) {
	raw, err := json.Marshal(progress)
	if err != nil {
		s.log.Error("marshal ledger record failed", "book", progress.BookID, "error", err)
		return
	}
	if err := s.store.Set(ctx, domain.BookProgressKey(progress.BookID), string(raw)); err != nil {
		s.log.Warn("persist ledger record failed", "book", progress.BookID, "error", err)
		return
	}
	if err := s.projector.Upsert(ctx, progress); err != nil {
		s.log.Warn("project ledger record failed", "book", progress.BookID, "error", err)
	}
}
