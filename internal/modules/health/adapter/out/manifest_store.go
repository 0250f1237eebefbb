package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"walkread/internal/modules/health/domain"
	healthout "walkread/internal/modules/health/port/out"
)

type manifestFile struct {
	Providers []domain.Manifest `yaml:"providers"`
}

// FileManifestStore reads providers.yaml. A missing file means no providers,
// which is a normal configuration: the step service then estimates.
type FileManifestStore struct {
	basePath string
	path     string
}

func NewFileManifestStore(basePath, manifestPath string) healthout.ManifestStore {
	return &FileManifestStore{basePath: basePath, path: manifestPath}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read provider manifests: %w", err)
	}
	parsed := manifestFile{}
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode provider manifests: %w", err)
	}
	for i := range parsed.Providers {
		if parsed.Providers[i].Binary != "" && !filepath.IsAbs(parsed.Providers[i].Binary) {
			parsed.Providers[i].Binary = filepath.Clean(filepath.Join(s.basePath, parsed.Providers[i].Binary))
		}
	}
	return parsed.Providers, nil
}
