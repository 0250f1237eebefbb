package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	DataPath      string
	StatePath     string
	DBPath        string
	ShelfPath     string
	ContentPath   string
	ProvidersPath string
}

func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	root := filepath.Join(dataPath, ".walkread")
	return Config{
		DataPath:      dataPath,
		StatePath:     filepath.Join(root, "state"),
		DBPath:        filepath.Join(root, "walkread.db"),
		ShelfPath:     filepath.Join(root, "shelf.yaml"),
		ContentPath:   filepath.Join(root, "content"),
		ProvidersPath: filepath.Join(root, "providers.yaml"),
	}, nil
}
