package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"walkread/internal/modules/progress/domain"
	progressout "walkread/internal/modules/progress/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteProjector struct {
	db *sql.DB
}

func NewSQLiteProjector(dbPath string) (*SQLiteProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

var _ progressout.Projector = (*SQLiteProjector)(nil)

func (s *SQLiteProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS book_progress (
  book_id TEXT PRIMARY KEY,
  book_title TEXT NOT NULL,
  last_step_count INTEGER NOT NULL,
  accumulated_steps INTEGER NOT NULL,
  unlocked_characters INTEGER NOT NULL,
  total_characters INTEGER NOT NULL,
  last_updated TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create book_progress table: %w", err)
	}
	return nil
}

func (s *SQLiteProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM book_progress`); err != nil {
		return fmt.Errorf("reset book_progress: %w", err)
	}
	return nil
}

func (s *SQLiteProjector) Upsert(ctx context.Context, progress domain.ReadingProgress) error {
	const stmt = `
INSERT INTO book_progress (book_id, book_title, last_step_count, accumulated_steps, unlocked_characters, total_characters, last_updated, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(book_id) DO UPDATE SET
  book_title=excluded.book_title,
  last_step_count=excluded.last_step_count,
  accumulated_steps=excluded.accumulated_steps,
  unlocked_characters=excluded.unlocked_characters,
  total_characters=excluded.total_characters,
  last_updated=excluded.last_updated,
  created_at=excluded.created_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		progress.BookID,
		progress.BookTitle,
		progress.LastStepCount,
		progress.AccumulatedSteps,
		progress.UnlockedCharacters,
		progress.TotalCharacters,
		progress.LastUpdated.Format(time.RFC3339),
		progress.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert book_progress: %w", err)
	}
	return nil
}

func (s *SQLiteProjector) Close() error {
	return s.db.Close()
}
