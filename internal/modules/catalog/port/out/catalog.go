package out

import (
	"context"

	"walkread/internal/modules/catalog/domain"
)

type ShelfStore interface {
	Load(ctx context.Context) ([]domain.Book, error)
	Save(ctx context.Context, books []domain.Book) error
}

// ContentExtractor pulls the full text out of one source file format.
type ContentExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ContentStore caches extracted text so the reading view can slice it by
// unlocked characters without re-parsing the source.
type ContentStore interface {
	Save(ctx context.Context, bookID, text string) (string, error)
	Load(ctx context.Context, bookID string) (string, error)
}
