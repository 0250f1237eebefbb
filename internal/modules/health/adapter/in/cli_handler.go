package in

import (
	"context"

	"walkread/internal/modules/health/dto"
	healthin "walkread/internal/modules/health/port/in"
)

type CLIHandler struct {
	usecase healthin.Usecase
}

func NewCLIHandler(usecase healthin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) TodaySteps(ctx context.Context) dto.ReadingOutput {
	return h.usecase.TodaySteps(ctx)
}

func (h CLIHandler) StepsForDate(ctx context.Context, date string) (dto.ReadingOutput, error) {
	return h.usecase.StepsForDate(ctx, date)
}

func (h CLIHandler) WeekSteps(ctx context.Context) []dto.ReadingOutput {
	return h.usecase.WeekSteps(ctx)
}

func (h CLIHandler) ListProviders(ctx context.Context) ([]dto.ProviderOutput, error) {
	return h.usecase.ListProviders(ctx)
}

func (h CLIHandler) CheckProvider(ctx context.Context, name string) (dto.MetadataOutput, error) {
	return h.usecase.CheckProvider(ctx, name)
}
