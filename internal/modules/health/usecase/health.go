package usecase

import (
	"context"

	"walkread/internal/modules/health/dto"
	healthin "walkread/internal/modules/health/port/in"
	"walkread/internal/modules/health/service"
)

type Interactor struct {
	svc *service.StepService
}

func NewInteractor(svc *service.StepService) healthin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) TodaySteps(ctx context.Context) dto.ReadingOutput {
	reading := i.svc.TodaySteps(ctx)
	return dto.ReadingOutput{Steps: reading.Steps, Date: reading.Date, Estimated: reading.Estimated}
}

func (i *Interactor) StepsForDate(ctx context.Context, date string) (dto.ReadingOutput, error) {
	reading, err := i.svc.StepsForDate(ctx, date)
	if err != nil {
		return dto.ReadingOutput{}, err
	}
	return dto.ReadingOutput{Steps: reading.Steps, Date: reading.Date, Estimated: reading.Estimated}, nil
}

func (i *Interactor) WeekSteps(ctx context.Context) []dto.ReadingOutput {
	readings := i.svc.WeekSteps(ctx)
	out := make([]dto.ReadingOutput, 0, len(readings))
	for _, reading := range readings {
		out = append(out, dto.ReadingOutput{Steps: reading.Steps, Date: reading.Date, Estimated: reading.Estimated})
	}
	return out
}

func (i *Interactor) ListProviders(ctx context.Context) ([]dto.ProviderOutput, error) {
	manifests, err := i.svc.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderOutput, 0, len(manifests))
	for _, manifest := range manifests {
		out = append(out, dto.ProviderOutput{Name: manifest.Name, Binary: manifest.Binary})
	}
	return out, nil
}

func (i *Interactor) CheckProvider(ctx context.Context, name string) (dto.MetadataOutput, error) {
	meta, err := i.svc.CheckProvider(ctx, name)
	if err != nil {
		return dto.MetadataOutput{}, err
	}
	return dto.MetadataOutput{Name: meta.Name, Version: meta.Version}, nil
}
