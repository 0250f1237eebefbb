package out

import (
	"context"

	healthin "walkread/internal/modules/health/port/in"
	progressout "walkread/internal/modules/progress/port/out"
)

// HealthStepSource feeds the accrual engine from the health module. The
// health usecase already guarantees a usable count (estimating on provider
// failure), which is exactly the no-error contract the engine relies on.
type HealthStepSource struct {
	health healthin.Usecase
}

func NewHealthStepSource(health healthin.Usecase) progressout.StepSource {
	return &HealthStepSource{health: health}
}

func (a *HealthStepSource) TodaySteps(ctx context.Context) int {
	return a.health.TodaySteps(ctx).Steps
}
