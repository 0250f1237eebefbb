package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	progressout "walkread/internal/modules/progress/port/out"
)

// FileStateStore keeps one file per key under the state directory. Keys are
// the store's own (bookProgress_*, dailyStepTracker_*) and are already safe
// as file names.
type FileStateStore struct {
	path string
}

func NewFileStateStore(statePath string) progressout.StateStore {
	return &FileStateStore{path: statePath}
}

func (s *FileStateStore) Get(_ context.Context, key string) (string, bool, error) {
	raw, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read state key %s: %w", key, err)
	}
	return string(raw), true, nil
}

func (s *FileStateStore) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(s.keyPath(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write state key %s: %w", key, err)
	}
	return nil
}

func (s *FileStateStore) AllKeys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list state dir: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStateStore) MultiGet(ctx context.Context, keys []string) ([]progressout.KeyValue, error) {
	out := make([]progressout.KeyValue, 0, len(keys))
	for _, key := range keys {
		value, found, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, progressout.KeyValue{Key: key, Value: value, Found: found})
	}
	return out, nil
}

func (s *FileStateStore) keyPath(key string) string {
	return filepath.Join(s.path, key+".json")
}
