package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader reads markdown documents from a directory tree.
type Loader struct {
	root string
}

// NewLoader creates a loader rooted at the given docs directory.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// LoadAll walks the docs tree and parses every markdown file into a Document.
// Paths recorded in document metadata are relative to the root, with forward
// slashes for consistency across platforms.
func (l *Loader) LoadAll(ctx context.Context) ([]Document, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, fmt.Errorf("docs directory %s is not accessible: %w", l.root, err)
	}

	var docs []Document
	err := filepath.Walk(l.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		// Check for context cancellation between files
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			// Skip hidden directories (VCS metadata, editor state)
			if info.Name() != "." && len(info.Name()) > 1 && info.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".md" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}

		relPath, err := filepath.Rel(l.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		docs = append(docs, ParseDocument(string(content), relPath))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}
