package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"walkread/internal/modules/catalog/domain"
	catalogout "walkread/internal/modules/catalog/port/out"
	apperrors "walkread/internal/platform/errors"
	"walkread/internal/platform/id"
)

type CatalogService struct {
	idGen      id.Generator
	shelf      catalogout.ShelfStore
	text       catalogout.ContentExtractor
	pdf        catalogout.ContentExtractor
	contentDir catalogout.ContentStore
}

func NewCatalogService(idGen id.Generator, shelf catalogout.ShelfStore, text, pdf catalogout.ContentExtractor, content catalogout.ContentStore) *CatalogService {
	return &CatalogService{idGen: idGen, shelf: shelf, text: text, pdf: pdf, contentDir: content}
}

// ImportFile adds a book from a local text or PDF file. The unlock capacity
// is the rune count of the extracted text; the text itself is cached for the
// reading view.
func (s *CatalogService) ImportFile(ctx context.Context, path, title, author string, year int, genre, description string) (domain.Book, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Book{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}

	extractor := s.text
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		extractor = s.pdf
	}
	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return domain.Book{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	book := domain.Book{
		ID:              s.idGen.New(),
		Title:           title,
		Author:          strings.TrimSpace(author),
		Year:            year,
		Genre:           genre,
		Description:     description,
		TotalCharacters: utf8.RuneCountInString(text),
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}

	contentPath, err := s.contentDir.Save(ctx, book.ID, text)
	if err != nil {
		return domain.Book{}, err
	}
	book.ContentPath = contentPath

	books, err := s.shelf.Load(ctx)
	if err != nil {
		return domain.Book{}, err
	}
	books = append(books, book)
	if err := s.shelf.Save(ctx, books); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// Seed fills an empty shelf with a starter catalog so the app is usable
// before any import. An already-populated shelf is left alone.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	books, err := s.shelf.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(books) > 0 {
		return 0, nil
	}
	if err := s.shelf.Save(ctx, starterBooks()); err != nil {
		return 0, err
	}
	return len(starterBooks()), nil
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.shelf.Load(ctx)
}

func (s *CatalogService) GetBook(ctx context.Context, bookID string) (domain.Book, error) {
	books, err := s.shelf.Load(ctx)
	if err != nil {
		return domain.Book{}, err
	}
	for _, book := range books {
		if book.ID == bookID {
			return book, nil
		}
	}
	return domain.Book{}, apperrors.ErrNotFound
}

// Content returns the cached full text of a book.
func (s *CatalogService) Content(ctx context.Context, bookID string) (string, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book.ContentPath == "" {
		return "", fmt.Errorf("%w: book %s has no imported content", apperrors.ErrNotFound, bookID)
	}
	return s.contentDir.Load(ctx, bookID)
}

func starterBooks() []domain.Book {
	return []domain.Book{
		{ID: "starter-1", Title: "The Old Man and the Sea", Author: "Ernest Hemingway", Year: 1952, Genre: "fiction", TotalCharacters: 127000},
		{ID: "starter-2", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Year: 1925, Genre: "fiction", TotalCharacters: 269000},
		{ID: "starter-3", Title: "A Christmas Carol", Author: "Charles Dickens", Year: 1843, Genre: "fiction", TotalCharacters: 160000},
		{ID: "starter-4", Title: "The Call of the Wild", Author: "Jack London", Year: 1903, Genre: "adventure", TotalCharacters: 179000},
		{ID: "starter-5", Title: "The Metamorphosis", Author: "Franz Kafka", Year: 1915, Genre: "fiction", TotalCharacters: 119000},
		{ID: "starter-6", Title: "Walden", Author: "Henry David Thoreau", Year: 1854, Genre: "essay", TotalCharacters: 590000},
	}
}
