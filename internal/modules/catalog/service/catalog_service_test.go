package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"walkread/internal/modules/catalog/adapter/out"
	"walkread/internal/modules/catalog/domain"
	"walkread/internal/modules/catalog/service"
	apperrors "walkread/internal/platform/errors"
)

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("id-%02d", s.n)
}

type memShelf struct{ books []domain.Book }

func (m *memShelf) Load(context.Context) ([]domain.Book, error) {
	return append([]domain.Book{}, m.books...), nil
}

func (m *memShelf) Save(_ context.Context, books []domain.Book) error {
	m.books = append([]domain.Book{}, books...)
	return nil
}

func newService(t *testing.T, shelf *memShelf) *service.CatalogService {
	t.Helper()
	content := out.NewFileContentStore(filepath.Join(t.TempDir(), "content"))
	return service.NewCatalogService(&seqIDs{}, shelf, out.NewTextExtractor(), out.NewPDFExtractor(), content)
}

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestImportFileCountsRunes(t *testing.T) {
	t.Parallel()
	shelf := &memShelf{}
	svc := newService(t, shelf)

	// 12 runes, more bytes: capacity must count characters, not bytes.
	path := writeFile(t, "walk.txt", "héllo wörld…")
	book, err := svc.ImportFile(context.Background(), path, "", "Anon", 0, "", "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if book.TotalCharacters != 12 {
		t.Fatalf("expected 12 runes, got %d", book.TotalCharacters)
	}
	if book.Title != "walk" {
		t.Fatalf("title must default to the file name, got %q", book.Title)
	}
	if len(shelf.books) != 1 {
		t.Fatalf("book not appended to shelf")
	}
}

func TestImportFileCachesContent(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memShelf{})
	ctx := context.Background()

	path := writeFile(t, "story.txt", "once upon a time")
	book, err := svc.ImportFile(ctx, path, "Story", "", 0, "", "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	text, err := svc.Content(ctx, book.ID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if text != "once upon a time" {
		t.Fatalf("cached content diverged: %q", text)
	}
}

func TestImportFileRejectsEmptyPath(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memShelf{})

	if _, err := svc.ImportFile(context.Background(), "  ", "", "", 0, "", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeedOnlyFillsEmptyShelf(t *testing.T) {
	t.Parallel()
	shelf := &memShelf{}
	svc := newService(t, shelf)
	ctx := context.Background()

	count, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if count == 0 || len(shelf.books) != count {
		t.Fatalf("expected starter books, got count=%d shelf=%d", count, len(shelf.books))
	}

	again, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if again != 0 {
		t.Fatalf("seeding a populated shelf must be a no-op, got %d", again)
	}
}

func TestGetBookUnknown(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memShelf{})

	if _, err := svc.GetBook(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentRequiresImportedText(t *testing.T) {
	t.Parallel()
	shelf := &memShelf{books: []domain.Book{
		{ID: "starter-1", Title: "Seeded", TotalCharacters: 1000},
	}}
	svc := newService(t, shelf)

	if _, err := svc.Content(context.Background(), "starter-1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("a seeded book without content must report ErrNotFound, got %v", err)
	}
}
