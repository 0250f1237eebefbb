package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	catalogout "walkread/internal/modules/catalog/port/out"
	apperrors "walkread/internal/platform/errors"
)

type TextExtractor struct{}

func NewTextExtractor() catalogout.ContentExtractor {
	return &TextExtractor{}
}

func (TextExtractor) Extract(_ context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(raw), nil
}

// PDFExtractor concatenates the text runs of every page.
type PDFExtractor struct{}

func NewPDFExtractor() catalogout.ContentExtractor {
	return &PDFExtractor{}
}

func (PDFExtractor) Extract(_ context.Context, path string) (string, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var builder strings.Builder
	for number := 1; number <= doc.NumPage(); number++ {
		page := doc.Page(number)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			builder.WriteString(text.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// FileContentStore caches extracted book text, one file per book.
type FileContentStore struct {
	path string
}

func NewFileContentStore(contentPath string) catalogout.ContentStore {
	return &FileContentStore{path: contentPath}
}

func (s *FileContentStore) Save(_ context.Context, bookID, text string) (string, error) {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return "", fmt.Errorf("create content dir: %w", err)
	}
	path := filepath.Join(s.path, bookID+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write content: %w", err)
	}
	return path, nil
}

func (s *FileContentStore) Load(_ context.Context, bookID string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.path, bookID+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(raw), nil
}
