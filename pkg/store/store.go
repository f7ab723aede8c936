// Package store persists the study set between sessions.
package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/japaniel/vocabdrill/pkg/words"
)

// DefaultPath is where the snapshot lives relative to the working directory.
const DefaultPath = "words.json"

// ErrCorruptSnapshot is returned alongside an empty set when an existing snapshot
// cannot be decoded.
var ErrCorruptSnapshot = errors.New("store: corrupt snapshot")

// Store loads and saves the full vocabulary.
type Store interface {
	// Load returns the stored set. A missing snapshot is an empty set with no error.
	Load(ctx context.Context) ([]*words.WordEntry, error)
	// Save replaces the stored set with entries.
	Save(ctx context.Context, entries []*words.WordEntry) error
}

// Open picks the backend from the file extension: ".db" and ".sqlite" use SQLite,
// anything else a JSON file. The returned close func must be called when done.
func Open(path string) (Store, func() error, error) {
	if path == "" {
		path = DefaultPath
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return &FileStore{Path: path}, func() error { return nil }, nil
	}
}

// Merge appends the fresh entries whose identity is not already known. Existing
// entries, including their reviewed date, are returned unchanged.
func Merge(existing []*words.WordEntry, fresh []words.WordEntry) []*words.WordEntry {
	seen := make(map[words.Identity]struct{}, len(existing)+len(fresh))
	out := make([]*words.WordEntry, 0, len(existing)+len(fresh))
	for _, e := range existing {
		if _, dup := seen[e.Identity()]; dup {
			continue
		}
		seen[e.Identity()] = struct{}{}
		out = append(out, e)
	}
	for i := range fresh {
		id := fresh[i].Identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		e := fresh[i]
		out = append(out, &e)
	}
	return out
}
