// Package corpus loads the plain-text document directory that feeds the
// retrieval index.
package corpus

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"corpuschat/internal/core"
)

// LoadDirectory reads every .txt and .md file in dir into a Document, one
// per file, creating the directory if it does not exist. An empty directory
// is a valid but degraded state; the caller decides how loudly to warn.
func LoadDirectory(dir string) ([]core.Document, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory %s: %w", dir, err)
	}

	var docs []core.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("Error loading document %s: %v. Skipping.", entry.Name(), err)
			continue
		}
		docs = append(docs, core.Document{
			Source: entry.Name(),
			Text:   string(data),
		})
		log.Printf("Loaded document: %s", entry.Name())
	}
	return docs, nil
}
