package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"walkread/internal/modules/progress/domain"
	progressout "walkread/internal/modules/progress/port/out"
	"walkread/internal/modules/progress/service"
	apperrors "walkread/internal/platform/errors"
	"walkread/internal/platform/logging"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeSteps struct{ count int }

func (f *fakeSteps) TodaySteps(context.Context) int { return f.count }

type memStore struct {
	data     map[string]string
	setCalls int
	getErr   error
	setErr   error
	keysErr  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls++
	m.data[key] = value
	return nil
}

func (m *memStore) AllKeys(context.Context) ([]string, error) {
	if m.keysErr != nil {
		return nil, m.keysErr
	}
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *memStore) MultiGet(ctx context.Context, keys []string) ([]progressout.KeyValue, error) {
	out := make([]progressout.KeyValue, 0, len(keys))
	for _, key := range keys {
		value, found, err := m.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, progressout.KeyValue{Key: key, Value: value, Found: found})
	}
	return out, nil
}

type recProjector struct {
	upserts []domain.ReadingProgress
	resets  int
}

func (r *recProjector) Upsert(_ context.Context, progress domain.ReadingProgress) error {
	r.upserts = append(r.upserts, progress)
	return nil
}

func (r *recProjector) Reset(context.Context) error {
	r.resets++
	return nil
}

func newService(clk *fakeClock, store *memStore, steps *fakeSteps) (*service.ProgressService, *recProjector) {
	projector := &recProjector{}
	return service.NewProgressService(clk, store, steps, projector, logging.Discard()), projector
}

func seed(t *testing.T, store *memStore, progress domain.ReadingProgress) {
	t.Helper()
	raw, err := json.Marshal(progress)
	if err != nil {
		t.Fatalf("marshal seed record: %v", err)
	}
	store.data[domain.BookProgressKey(progress.BookID)] = string(raw)
}

func mustGet(t *testing.T, store *memStore, bookID string) domain.ReadingProgress {
	t.Helper()
	raw, ok := store.data[domain.BookProgressKey(bookID)]
	if !ok {
		t.Fatalf("no persisted record for %s", bookID)
	}
	var progress domain.ReadingProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		t.Fatalf("unmarshal persisted record: %v", err)
	}
	return progress
}

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestStartReadingCreatesBaseline(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	svc, _ := newService(clk, store, &fakeSteps{count: 500})

	progress, err := svc.StartReading(context.Background(), "book-1", "Walden", 127000)
	if err != nil {
		t.Fatalf("start reading: %v", err)
	}
	if progress.LastStepCount != 500 || progress.AccumulatedSteps != 500 {
		t.Fatalf("expected baseline 500/500, got %d/%d", progress.LastStepCount, progress.AccumulatedSteps)
	}
	if progress.UnlockedCharacters != 500 {
		t.Fatalf("expected 500 unlocked, got %d", progress.UnlockedCharacters)
	}
	if got := mustGet(t, store, "book-1"); got.AccumulatedSteps != 500 {
		t.Fatalf("persisted record diverged: %+v", got)
	}
}

func TestStartReadingClampsUnlockToCapacity(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	svc, _ := newService(clk, newMemStore(), &fakeSteps{count: 5000})

	progress, err := svc.StartReading(context.Background(), "book-1", "Pamphlet", 300)
	if err != nil {
		t.Fatalf("start reading: %v", err)
	}
	if progress.UnlockedCharacters != 300 {
		t.Fatalf("unlock must stop at capacity, got %d", progress.UnlockedCharacters)
	}
}

func TestStartReadingRebaselinesKnownBook(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", BookTitle: "Walden",
		LastStepCount: 1200, AccumulatedSteps: 4200, UnlockedCharacters: 4200,
		TotalCharacters: 127000, LastUpdated: noon.Add(-48 * time.Hour), CreatedAt: noon.Add(-72 * time.Hour),
	})
	svc, _ := newService(clk, store, &fakeSteps{count: 6000})

	progress, err := svc.StartReading(context.Background(), "book-1", "Walden", 127000)
	if err != nil {
		t.Fatalf("start reading: %v", err)
	}
	if progress.LastStepCount != 6000 {
		t.Fatalf("baseline must move to the raw reading, got %d", progress.LastStepCount)
	}
	if progress.AccumulatedSteps != 4200 || progress.UnlockedCharacters != 4200 {
		t.Fatalf("restart must not grant or revoke progress, got %d/%d",
			progress.AccumulatedSteps, progress.UnlockedCharacters)
	}
}

func TestStartReadingRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	svc, _ := newService(clk, newMemStore(), &fakeSteps{count: 100})

	if _, err := svc.StartReading(context.Background(), "  ", "x", 10); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank book id: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.StartReading(context.Background(), "book-1", "x", -1); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("negative capacity: expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateProgressCreditsSameDayDelta(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", BookTitle: "Walden",
		LastStepCount: 1000, AccumulatedSteps: 1000, UnlockedCharacters: 1000,
		TotalCharacters: 127000, LastUpdated: noon.Add(-time.Minute), CreatedAt: noon.Add(-time.Hour),
	})
	svc, _ := newService(clk, store, &fakeSteps{count: 1750})

	progress, err := svc.UpdateProgress(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if progress.AccumulatedSteps != 1750 {
		t.Fatalf("expected 750 credited, got accumulated %d", progress.AccumulatedSteps)
	}
	if progress.LastStepCount != 1750 {
		t.Fatalf("baseline must follow the raw reading, got %d", progress.LastStepCount)
	}
}

func TestUpdateProgressZeroDeltaWritesNothing(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", LastStepCount: 1000, AccumulatedSteps: 1000, UnlockedCharacters: 1000,
		TotalCharacters: 127000, LastUpdated: noon.Add(-time.Minute), CreatedAt: noon.Add(-time.Hour),
	})
	svc, projector := newService(clk, store, &fakeSteps{count: 1000})

	before := store.setCalls
	if _, err := svc.UpdateProgress(context.Background(), "book-1"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.setCalls != before {
		t.Fatalf("zero delta must not write, saw %d writes", store.setCalls-before)
	}
	if len(projector.upserts) != 0 {
		t.Fatalf("zero delta must not project, saw %d upserts", len(projector.upserts))
	}
}

func TestUpdateProgressClampsCounterRegression(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", LastStepCount: 2000, AccumulatedSteps: 3000, UnlockedCharacters: 3000,
		TotalCharacters: 127000, LastUpdated: noon.Add(-time.Minute), CreatedAt: noon.Add(-time.Hour),
	})
	svc, _ := newService(clk, store, &fakeSteps{count: 1500})

	before := store.setCalls
	progress, err := svc.UpdateProgress(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if progress.AccumulatedSteps != 3000 || progress.UnlockedCharacters != 3000 {
		t.Fatalf("a lower raw reading must never take progress away, got %d/%d",
			progress.AccumulatedSteps, progress.UnlockedCharacters)
	}
	if store.setCalls != before {
		t.Fatalf("clamped delta must not write")
	}
}

func TestUpdateProgressDayRolloverCreditsFullDay(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", LastStepCount: 5000, AccumulatedSteps: 5000, UnlockedCharacters: 5000,
		TotalCharacters: 127000, LastUpdated: noon.Add(-24 * time.Hour), CreatedAt: noon.Add(-48 * time.Hour),
	})
	svc, _ := newService(clk, store, &fakeSteps{count: 300})

	progress, err := svc.UpdateProgress(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if progress.AccumulatedSteps != 5300 {
		t.Fatalf("rollover must credit the full current-day count, got %d", progress.AccumulatedSteps)
	}
	if progress.LastStepCount != 300 {
		t.Fatalf("baseline must reset to the new day's reading, got %d", progress.LastStepCount)
	}
}

func TestUpdateProgressUnknownBook(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	svc, _ := newService(clk, newMemStore(), &fakeSteps{count: 100})

	if _, err := svc.UpdateProgress(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreReadFailureTreatedAsAbsent(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	store.getErr = errors.New("disk unhappy")
	svc, _ := newService(clk, store, &fakeSteps{count: 100})

	if _, err := svc.BookProgress(context.Background(), "book-1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("read failure must look like an absent record, got %v", err)
	}
}

func TestPersistFailureCostsOneCycleOnly(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", LastStepCount: 1000, AccumulatedSteps: 1000, UnlockedCharacters: 1000,
		TotalCharacters: 127000, LastUpdated: noon.Add(-time.Minute), CreatedAt: noon.Add(-time.Hour),
	})
	steps := &fakeSteps{count: 1750}
	svc, _ := newService(clk, store, steps)

	store.setErr = errors.New("disk full")
	if _, err := svc.UpdateProgress(context.Background(), "book-1"); err != nil {
		t.Fatalf("write failure must be absorbed, got %v", err)
	}
	if got := mustGet(t, store, "book-1"); got.AccumulatedSteps != 1000 {
		t.Fatalf("failed write must leave the stored record intact, got %d", got.AccumulatedSteps)
	}

	// Next cycle re-measures from the last persisted baseline.
	store.setErr = nil
	steps.count = 1800
	progress, err := svc.UpdateProgress(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if progress.AccumulatedSteps != 1800 {
		t.Fatalf("expected recovery to credit 800 from the persisted baseline, got %d", progress.AccumulatedSteps)
	}
}

func TestUpdateAllBooksSkipsFailingRecord(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "good", LastStepCount: 100, AccumulatedSteps: 100, UnlockedCharacters: 100,
		TotalCharacters: 1000, LastUpdated: noon.Add(-time.Minute), CreatedAt: noon.Add(-time.Hour),
	})
	store.data[domain.BookProgressKey("broken")] = "{not json"
	svc, _ := newService(clk, store, &fakeSteps{count: 400})

	svc.UpdateAllBooks(context.Background())

	if got := mustGet(t, store, "good"); got.AccumulatedSteps != 400 {
		t.Fatalf("healthy book must still accrue, got %d", got.AccumulatedSteps)
	}
}

func TestStopReadingRunsFinalAccrual(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	steps := &fakeSteps{count: 1000}
	svc, _ := newService(clk, store, steps)

	if _, err := svc.StartReading(context.Background(), "book-1", "Walden", 127000); err != nil {
		t.Fatalf("start: %v", err)
	}
	steps.count = 1600

	svc.StopReading(context.Background())

	if got := mustGet(t, store, "book-1"); got.AccumulatedSteps != 1600 {
		t.Fatalf("stop must sweep in the last steps, got %d", got.AccumulatedSteps)
	}
	if svc.CurrentReading() != nil {
		t.Fatalf("stop must drop the transient pointer")
	}
}

func TestStatsGuardsZeroCapacity(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", AccumulatedSteps: 900, UnlockedCharacters: 0,
		TotalCharacters: 0, LastUpdated: noon, CreatedAt: noon,
	})
	svc, _ := newService(clk, store, &fakeSteps{})

	stats, err := svc.Stats(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ProgressPercent != 0 {
		t.Fatalf("zero capacity must report 0%%, got %d", stats.ProgressPercent)
	}
}

func TestStatsRoundsPercent(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", AccumulatedSteps: 500, UnlockedCharacters: 500,
		TotalCharacters: 1000, LastUpdated: noon, CreatedAt: noon,
	})
	svc, _ := newService(clk, store, &fakeSteps{})

	stats, err := svc.Stats(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ProgressPercent != 50 {
		t.Fatalf("expected 50%%, got %d", stats.ProgressPercent)
	}
}

func TestTotalUsedStepsTodayCountsOnlyToday(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "today", AccumulatedSteps: 700, UnlockedCharacters: 700,
		TotalCharacters: 1000, LastUpdated: noon.Add(-time.Hour), CreatedAt: noon,
	})
	seed(t, store, domain.ReadingProgress{
		BookID: "stale", AccumulatedSteps: 9000, UnlockedCharacters: 1000,
		TotalCharacters: 1000, LastUpdated: noon.Add(-30 * time.Hour), CreatedAt: noon,
	})
	svc, _ := newService(clk, store, &fakeSteps{})

	if got := svc.TotalUsedStepsToday(context.Background()); got != 700 {
		t.Fatalf("expected 700 used today, got %d", got)
	}
}

func TestReconcileCatalogPatchesDriftedRecord(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "book-1", BookTitle: "Old Title",
		LastStepCount: 100, AccumulatedSteps: 800, UnlockedCharacters: 800,
		TotalCharacters: 1000, LastUpdated: noon, CreatedAt: noon,
	})
	svc, _ := newService(clk, store, &fakeSteps{})

	svc.ReconcileCatalog(context.Background(), []domain.CatalogEntry{
		{BookID: "book-1", Title: "New Title", TotalCharacters: 600},
		{BookID: "never-started", Title: "Ignored", TotalCharacters: 10},
	})

	got := mustGet(t, store, "book-1")
	if got.BookTitle != "New Title" {
		t.Fatalf("title not corrected: %q", got.BookTitle)
	}
	if got.TotalCharacters != 600 || got.UnlockedCharacters != 600 {
		t.Fatalf("unlock must re-derive against the corrected capacity, got %d/%d",
			got.UnlockedCharacters, got.TotalCharacters)
	}
}

func TestDailyTrackerCreatedOncePerDay(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	steps := &fakeSteps{count: 2500}
	svc, _ := newService(clk, store, steps)

	first := svc.DailyTracker(context.Background())
	if first.BaseStepCount != 2500 || first.Date != "2026-03-14" {
		t.Fatalf("unexpected tracker: %+v", first)
	}

	steps.count = 9999
	second := svc.DailyTracker(context.Background())
	if second.BaseStepCount != 2500 {
		t.Fatalf("tracker must be created once per day, got base %d", second.BaseStepCount)
	}
}

func TestReindexRebuildsProjection(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: noon}
	store := newMemStore()
	seed(t, store, domain.ReadingProgress{
		BookID: "a", AccumulatedSteps: 1, TotalCharacters: 10, LastUpdated: noon, CreatedAt: noon,
	})
	seed(t, store, domain.ReadingProgress{
		BookID: "b", AccumulatedSteps: 2, TotalCharacters: 10, LastUpdated: noon, CreatedAt: noon,
	})
	svc, projector := newService(clk, store, &fakeSteps{})

	if err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if projector.resets != 1 {
		t.Fatalf("expected one reset, got %d", projector.resets)
	}
	if len(projector.upserts) != 2 {
		t.Fatalf("expected both records projected, got %d", len(projector.upserts))
	}
}
