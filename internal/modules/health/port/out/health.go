package out

import (
	"context"

	"walkread/internal/modules/health/domain"
)

// ProviderHost talks to one external provider binary.
type ProviderHost interface {
	Metadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	TodaySteps(ctx context.Context, manifest domain.Manifest) (int, error)
	StepsForDate(ctx context.Context, manifest domain.Manifest, date string) (int, error)
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}
