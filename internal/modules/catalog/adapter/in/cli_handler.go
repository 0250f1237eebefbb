package in

import (
	"context"

	"walkread/internal/modules/catalog/dto"
	catalogin "walkread/internal/modules/catalog/port/in"
)

// CLIHandler adapts catalog use cases for the command layer.
type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) *CLIHandler {
	return &CLIHandler{usecase: usecase}
}

func (h *CLIHandler) ImportFile(ctx context.Context, input dto.ImportInput) (dto.BookOutput, error) {
	return h.usecase.ImportFile(ctx, input)
}

func (h *CLIHandler) Seed(ctx context.Context) (int, error) {
	return h.usecase.Seed(ctx)
}

func (h *CLIHandler) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h *CLIHandler) GetBook(ctx context.Context, bookID string) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, bookID)
}

func (h *CLIHandler) Content(ctx context.Context, bookID string) (string, error) {
	return h.usecase.Content(ctx, bookID)
}
