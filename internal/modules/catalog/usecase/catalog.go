package usecase

import (
	"context"

	"walkread/internal/modules/catalog/domain"
	"walkread/internal/modules/catalog/dto"
	catalogin "walkread/internal/modules/catalog/port/in"
	"walkread/internal/modules/catalog/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ImportFile(ctx context.Context, input dto.ImportInput) (dto.BookOutput, error) {
	book, err := i.svc.ImportFile(ctx, input.Path, input.Title, input.Author, input.Year, input.Genre, input.Description)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) Seed(ctx context.Context) (int, error) {
	return i.svc.Seed(ctx)
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	books, err := i.svc.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(books))
	for _, book := range books {
		out = append(out, toOutput(book))
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, bookID string) (dto.BookOutput, error) {
	book, err := i.svc.GetBook(ctx, bookID)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return toOutput(book), nil
}

func (i *Interactor) Content(ctx context.Context, bookID string) (string, error) {
	return i.svc.Content(ctx, bookID)
}

func toOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		Year:            book.Year,
		Genre:           book.Genre,
		Description:     book.Description,
		TotalCharacters: book.TotalCharacters,
		HasContent:      book.ContentPath != "",
	}
}
