package in

import (
	"context"

	"walkread/internal/modules/health/dto"
)

type Usecase interface {
	TodaySteps(ctx context.Context) dto.ReadingOutput
	StepsForDate(ctx context.Context, date string) (dto.ReadingOutput, error)
	WeekSteps(ctx context.Context) []dto.ReadingOutput
	ListProviders(ctx context.Context) ([]dto.ProviderOutput, error)
	CheckProvider(ctx context.Context, name string) (dto.MetadataOutput, error)
}
