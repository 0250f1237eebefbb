package in

import (
	"context"

	"walkread/internal/modules/catalog/dto"
)

type Usecase interface {
	ImportFile(ctx context.Context, input dto.ImportInput) (dto.BookOutput, error)
	Seed(ctx context.Context) (int, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	GetBook(ctx context.Context, bookID string) (dto.BookOutput, error)
	Content(ctx context.Context, bookID string) (string, error)
}
