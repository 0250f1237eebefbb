package out_test

import (
	"context"
	"errors"
	"testing"

	"walkread/internal/modules/progress/adapter/out"
	apperrors "walkread/internal/platform/errors"
)

func TestCurrentBookStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := out.NewFileCurrentBookStore(t.TempDir())
	ctx := context.Background()

	if err := store.SaveCurrent(ctx, "book-7"); err != nil {
		t.Fatalf("save: %v", err)
	}
	bookID, err := store.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bookID != "book-7" {
		t.Fatalf("expected book-7, got %q", bookID)
	}
}

func TestCurrentBookStoreEmpty(t *testing.T) {
	t.Parallel()
	store := out.NewFileCurrentBookStore(t.TempDir())

	if _, err := store.LoadCurrent(context.Background()); !errors.Is(err, apperrors.ErrNoActiveReading) {
		t.Fatalf("expected ErrNoActiveReading, got %v", err)
	}
}

func TestCurrentBookStoreClear(t *testing.T) {
	t.Parallel()
	store := out.NewFileCurrentBookStore(t.TempDir())
	ctx := context.Background()

	if err := store.SaveCurrent(ctx, "book-7"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.ClearCurrent(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.LoadCurrent(ctx); !errors.Is(err, apperrors.ErrNoActiveReading) {
		t.Fatalf("expected ErrNoActiveReading after clear, got %v", err)
	}
	// Clearing twice is a no-op.
	if err := store.ClearCurrent(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}
