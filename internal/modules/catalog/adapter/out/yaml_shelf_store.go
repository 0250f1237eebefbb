package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"walkread/internal/modules/catalog/domain"
	catalogout "walkread/internal/modules/catalog/port/out"
)

type shelfFile struct {
	SchemaVersion int           `yaml:"schema_version"`
	Books         []domain.Book `yaml:"books"`
}

type YAMLShelfStore struct {
	path string
}

func NewYAMLShelfStore(shelfPath string) catalogout.ShelfStore {
	return &YAMLShelfStore{path: shelfPath}
}

func (s *YAMLShelfStore) Load(_ context.Context) ([]domain.Book, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Book{}, nil
		}
		return nil, fmt.Errorf("read shelf: %w", err)
	}
	parsed := shelfFile{}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode shelf: %w", err)
	}
	return parsed.Books, nil
}

func (s *YAMLShelfStore) Save(_ context.Context, books []domain.Book) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create shelf dir: %w", err)
	}
	raw, err := yaml.Marshal(shelfFile{SchemaVersion: domain.SchemaVersion, Books: books})
	if err != nil {
		return fmt.Errorf("marshal shelf: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write shelf: %w", err)
	}
	return nil
}
