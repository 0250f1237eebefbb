package domain

import (
	"fmt"
	"strings"
)

const SchemaVersion = 1

// Book is one catalog entry. TotalCharacters is the unlock capacity: it is
// fixed at import time and only changes through an explicit correction.
type Book struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Author          string `yaml:"author"`
	Year            int    `yaml:"year,omitempty"`
	Genre           string `yaml:"genre,omitempty"`
	Description     string `yaml:"description,omitempty"`
	TotalCharacters int    `yaml:"total_characters"`
	ContentPath     string `yaml:"content_path,omitempty"`
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("book id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if b.TotalCharacters < 0 {
		return fmt.Errorf("total characters must be non-negative")
	}
	return nil
}
