// Package pantry persists the agent's ephemeral shopping artifacts.
//
// Each run overwrites ingredients.txt / menu.txt in the configured directory;
// there is no versioning. Writes take a file lock so simultaneous requests
// cannot interleave partial lists.
package pantry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/lexia-ai/sous/internal/log"
)

// Artifact filenames.
const (
	IngredientsFile = "ingredients.txt"
	MenuFile        = "menu.txt"
)

// Store writes line-oriented shopping files under a single directory.
type Store struct {
	dir    string
	logger log.Logger
}

// NewStore creates a Store writing into dir.
func NewStore(dir string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// SaveIngredients overwrites ingredients.txt with one ingredient per line.
// Returns the written path.
func (s *Store) SaveIngredients(items []string) (string, error) {
	return s.writeLines(IngredientsFile, items)
}

// SaveMenu overwrites menu.txt with one menu item per line.
// Returns the written path.
func (s *Store) SaveMenu(items []string) (string, error) {
	return s.writeLines(MenuFile, items)
}

// writeLines writes items to name under the store directory, guarded by a
// flock so concurrent requests replace the file atomically relative to each
// other.
func (s *Store) writeLines(name string, items []string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating pantry directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("locking %s: %w", name, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("unlocking pantry file failed", "file", name, "error", err)
		}
	}()

	var b strings.Builder
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	s.logger.Debug("saved pantry file", "file", name, "items", len(items))
	return path, nil
}
