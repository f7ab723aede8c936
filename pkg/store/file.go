package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/japaniel/vocabdrill/pkg/words"
)

// FileStore keeps the snapshot as a JSON array in a single file.
type FileStore struct {
	Path string
}

// Load reads the snapshot. A missing file yields an empty set; an unreadable or
// undecodable file yields an empty set and an error wrapping ErrCorruptSnapshot.
func (s *FileStore) Load(ctx context.Context) ([]*words.WordEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*words.WordEntry{}, nil
	}
	if err != nil {
		return []*words.WordEntry{}, fmt.Errorf("%w: read %s: %v", ErrCorruptSnapshot, s.Path, err)
	}

	var entries []*words.WordEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return []*words.WordEntry{}, fmt.Errorf("%w: decode %s: %v", ErrCorruptSnapshot, s.Path, err)
	}
	out := entries[:0]
	for _, e := range entries {
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// Save writes the full set to a temporary file next to the snapshot and renames it
// over the old one.
func (s *FileStore) Save(ctx context.Context, entries []*words.WordEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []*words.WordEntry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.Path, err)
	}
	return nil
}
