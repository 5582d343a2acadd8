package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaminalder/reversi/internal/domain"
)

// ErrNotFound is returned when no history has been saved under a name.
var ErrNotFound = errors.New("saved game not found")

// FileStore keeps one history file per name inside Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}

// Save writes g's undo and redo history under name.
func (s *FileStore) Save(name string, g *domain.Game) error {
	undo, redo := g.Moves()
	tmp, err := os.CreateTemp(s.Dir, ".reversi-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, undo, redo); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Load reads the history saved under name and replays it into a new game.
func (s *FileStore) Load(name string) (*domain.Game, error) {
	f, err := os.Open(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	undo, redo, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	g, err := domain.Restore(undo, redo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrCorrupt, err)
	}
	return g, nil
}
