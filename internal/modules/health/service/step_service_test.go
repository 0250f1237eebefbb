package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"walkread/internal/modules/health/domain"
	"walkread/internal/modules/health/service"
	apperrors "walkread/internal/platform/errors"
	"walkread/internal/platform/logging"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeManifests struct {
	manifests []domain.Manifest
	err       error
}

func (f fakeManifests) Load(context.Context) ([]domain.Manifest, error) {
	return f.manifests, f.err
}

type fakeHost struct {
	steps     map[string]int
	today     map[string]int
	meta      map[string]domain.Metadata
	failing   map[string]bool
	todayCall []string
}

func (f *fakeHost) Metadata(_ context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	if f.failing[manifest.Name] {
		return domain.Metadata{}, errors.New("provider down")
	}
	return f.meta[manifest.Name], nil
}

func (f *fakeHost) TodaySteps(_ context.Context, manifest domain.Manifest) (int, error) {
	f.todayCall = append(f.todayCall, manifest.Name)
	if f.failing[manifest.Name] {
		return 0, errors.New("provider down")
	}
	return f.today[manifest.Name], nil
}

func (f *fakeHost) StepsForDate(_ context.Context, manifest domain.Manifest, date string) (int, error) {
	if f.failing[manifest.Name] {
		return 0, errors.New("provider down")
	}
	return f.steps[manifest.Name+"/"+date], nil
}

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newService(manifests fakeManifests, host *fakeHost) *service.StepService {
	return service.NewStepService(&fakeClock{now: noon}, manifests, host, logging.Discard())
}

func TestTodayStepsFromProvider(t *testing.T) {
	t.Parallel()
	host := &fakeHost{today: map[string]int{"sim": 4321}}
	svc := newService(fakeManifests{manifests: []domain.Manifest{{Name: "sim", Binary: "stepsim"}}}, host)

	reading := svc.TodaySteps(context.Background())
	if reading.Steps != 4321 || reading.Estimated {
		t.Fatalf("expected real reading 4321, got %+v", reading)
	}
	if reading.Date != "2026-03-14" {
		t.Fatalf("unexpected date %q", reading.Date)
	}
}

func TestTodayStepsFallsBackToEstimate(t *testing.T) {
	t.Parallel()
	svc := newService(fakeManifests{}, &fakeHost{})

	reading := svc.TodaySteps(context.Background())
	if !reading.Estimated {
		t.Fatalf("no providers must yield an estimate, got %+v", reading)
	}
	if reading.Steps < 2000 || reading.Steps >= 8000 {
		t.Fatalf("estimate out of bounds: %d", reading.Steps)
	}
}

func TestTodayStepsTriesProvidersInManifestOrder(t *testing.T) {
	t.Parallel()
	host := &fakeHost{
		today:   map[string]int{"second": 777},
		failing: map[string]bool{"first": true},
	}
	svc := newService(fakeManifests{manifests: []domain.Manifest{
		{Name: "first"}, {Name: "second"},
	}}, host)

	reading := svc.TodaySteps(context.Background())
	if reading.Steps != 777 || reading.Estimated {
		t.Fatalf("expected the second provider's answer, got %+v", reading)
	}
	if len(host.todayCall) != 2 || host.todayCall[0] != "first" {
		t.Fatalf("providers must be tried in manifest order, got %v", host.todayCall)
	}
}

func TestStepsForDateRejectsBadFormat(t *testing.T) {
	t.Parallel()
	svc := newService(fakeManifests{}, &fakeHost{})

	if _, err := svc.StepsForDate(context.Background(), "14/03/2026"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStepsForDateFutureIsZero(t *testing.T) {
	t.Parallel()
	host := &fakeHost{steps: map[string]int{"sim/2026-03-20": 9999}}
	svc := newService(fakeManifests{manifests: []domain.Manifest{{Name: "sim"}}}, host)

	reading, err := svc.StepsForDate(context.Background(), "2026-03-20")
	if err != nil {
		t.Fatalf("steps for date: %v", err)
	}
	if reading.Steps != 0 || reading.Estimated {
		t.Fatalf("future dates are always zero, got %+v", reading)
	}
}

func TestStepsForDateEstimateBounds(t *testing.T) {
	t.Parallel()
	svc := newService(fakeManifests{}, &fakeHost{})

	reading, err := svc.StepsForDate(context.Background(), "2026-03-10")
	if err != nil {
		t.Fatalf("steps for date: %v", err)
	}
	if !reading.Estimated {
		t.Fatalf("expected an estimate, got %+v", reading)
	}
	if reading.Steps < 1000 || reading.Steps >= 10000 {
		t.Fatalf("estimate out of bounds: %d", reading.Steps)
	}
}

func TestNegativeProviderCountIsRejected(t *testing.T) {
	t.Parallel()
	host := &fakeHost{today: map[string]int{"sim": -5}}
	svc := newService(fakeManifests{manifests: []domain.Manifest{{Name: "sim"}}}, host)

	reading := svc.TodaySteps(context.Background())
	if !reading.Estimated {
		t.Fatalf("a negative provider count must be discarded, got %+v", reading)
	}
}

func TestWeekStepsOldestFirst(t *testing.T) {
	t.Parallel()
	svc := newService(fakeManifests{}, &fakeHost{})

	week := svc.WeekSteps(context.Background())
	if len(week) != 7 {
		t.Fatalf("expected 7 readings, got %d", len(week))
	}
	if week[0].Date != "2026-03-08" || week[6].Date != "2026-03-14" {
		t.Fatalf("expected oldest-first ordering, got %s .. %s", week[0].Date, week[6].Date)
	}
}

func TestCheckProviderUnknown(t *testing.T) {
	t.Parallel()
	svc := newService(fakeManifests{manifests: []domain.Manifest{{Name: "sim"}}}, &fakeHost{})

	if _, err := svc.CheckProvider(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestCheckProviderReportsMetadata(t *testing.T) {
	t.Parallel()
	host := &fakeHost{meta: map[string]domain.Metadata{"sim": {Name: "stepsim", Version: "1.0.0"}}}
	svc := newService(fakeManifests{manifests: []domain.Manifest{{Name: "sim"}}}, host)

	meta, err := svc.CheckProvider(context.Background(), "sim")
	if err != nil {
		t.Fatalf("check provider: %v", err)
	}
	if meta.Name != "stepsim" || meta.Version != "1.0.0" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}
