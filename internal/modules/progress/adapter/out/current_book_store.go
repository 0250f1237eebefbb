package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	progressout "walkread/internal/modules/progress/port/out"
	apperrors "walkread/internal/platform/errors"
)

type currentBookRecord struct {
	BookID  string    `json:"book_id"`
	SavedAt time.Time `json:"saved_at"`
}

// FileCurrentBookStore persists which book the user was last reading, so the
// UI can resume it after a restart. The engine's own CurrentReading pointer
// is deliberately process-local.
type FileCurrentBookStore struct {
	path string
}

func NewFileCurrentBookStore(statePath string) progressout.CurrentBookStore {
	return &FileCurrentBookStore{path: filepath.Join(statePath, "current-book.json")}
}

func (s *FileCurrentBookStore) SaveCurrent(_ context.Context, bookID string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(currentBookRecord{BookID: bookID, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal current book: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write current book: %w", err)
	}
	return nil
}

func (s *FileCurrentBookStore) LoadCurrent(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.ErrNoActiveReading
		}
		return "", fmt.Errorf("read current book: %w", err)
	}
	record := currentBookRecord{}
	if err := json.Unmarshal(payload, &record); err != nil {
		return "", fmt.Errorf("decode current book: %w", err)
	}
	if record.BookID == "" {
		return "", apperrors.ErrNoActiveReading
	}
	return record.BookID, nil
}

func (s *FileCurrentBookStore) ClearCurrent(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear current book: %w", err)
	}
	return nil
}
