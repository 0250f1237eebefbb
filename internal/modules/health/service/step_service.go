package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"walkread/internal/modules/health/domain"
	healthout "walkread/internal/modules/health/port/out"
	"walkread/internal/platform/clock"
	apperrors "walkread/internal/platform/errors"
)

// Estimate bounds match the source system's synthetic ranges: the UI should
// show a plausible count rather than an error when no provider can answer.
const (
	todayEstimateFloor = 2000
	todayEstimateSpan  = 6000
	dateEstimateFloor  = 1000
	dateEstimateSpan   = 9000
)

// StepService turns a set of best-effort providers into readings that never
// fail. Providers are tried in manifest order; when every one of them is
// unavailable the service substitutes a bounded random estimate and flags it.
type StepService struct {
	clock     clock.Clock
	manifests healthout.ManifestStore
	host      healthout.ProviderHost
	log       hclog.Logger
}

func NewStepService(clk clock.Clock, manifests healthout.ManifestStore, host healthout.ProviderHost, log hclog.Logger) *StepService {
	return &StepService{clock: clk, manifests: manifests, host: host, log: log}
}

func (s *StepService) TodaySteps(ctx context.Context) domain.Reading {
	today := clock.DateString(s.clock.Now())
	steps, ok := s.query(ctx, func(manifest domain.Manifest) (int, error) {
		return s.host.TodaySteps(ctx, manifest)
	})
	if ok {
		return domain.Reading{Steps: steps, Date: today}
	}
	return domain.Reading{Steps: todayEstimateFloor + rand.IntN(todayEstimateSpan), Date: today, Estimated: true}
}

// StepsForDate reports a past day's count. Dates strictly after today are
// always zero, provider or not.
func (s *StepService) StepsForDate(ctx context.Context, date string) (domain.Reading, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.Reading{}, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrInvalidInput)
	}
	today := clock.DateString(s.clock.Now())
	if date > today {
		return domain.Reading{Steps: 0, Date: date}, nil
	}
	steps, ok := s.query(ctx, func(manifest domain.Manifest) (int, error) {
		return s.host.StepsForDate(ctx, manifest, date)
	})
	if ok {
		return domain.Reading{Steps: steps, Date: date}, nil
	}
	return domain.Reading{Steps: dateEstimateFloor + rand.IntN(dateEstimateSpan), Date: date, Estimated: true}, nil
}

// WeekSteps returns the last seven days, oldest first, today last.
func (s *StepService) WeekSteps(ctx context.Context) []domain.Reading {
	now := s.clock.Now()
	out := make([]domain.Reading, 0, 7)
	for i := 6; i >= 0; i-- {
		date := clock.DateString(now.AddDate(0, 0, -i))
		reading, err := s.StepsForDate(ctx, date)
		if err != nil {
			continue
		}
		out = append(out, reading)
	}
	return out
}

func (s *StepService) ListProviders(ctx context.Context) ([]domain.Manifest, error) {
	return s.manifests.Load(ctx)
}

func (s *StepService) CheckProvider(ctx context.Context, name string) (domain.Metadata, error) {
	manifests, err := s.manifests.Load(ctx)
	if err != nil {
		return domain.Metadata{}, err
	}
	for _, manifest := range manifests {
		if manifest.Name == name {
			return s.host.Metadata(ctx, manifest)
		}
	}
	return domain.Metadata{}, apperrors.ErrNoProvider
}

// query walks the manifest list until one provider answers. All failures are
// absorbed; the bool reports whether any real value was obtained.
func (s *StepService) query(ctx context.Context, call func(domain.Manifest) (int, error)) (int, bool) {
	manifests, err := s.manifests.Load(ctx)
	if err != nil {
		s.log.Warn("load provider manifests failed", "error", err)
		return 0, false
	}
	for _, manifest := range manifests {
		steps, err := call(manifest)
		if err != nil {
			s.log.Warn("step provider failed", "provider", manifest.Name, "error", err)
			continue
		}
		if steps < 0 {
			s.log.Warn("step provider returned negative count", "provider", manifest.Name, "steps", steps)
			continue
		}
		return steps, true
	}
	return 0, false
}
