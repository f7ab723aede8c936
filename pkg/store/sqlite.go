package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japaniel/vocabdrill/pkg/db"
	"github.com/japaniel/vocabdrill/pkg/words"
)

// SQLiteStore keeps the snapshot in a SQLite database, rewritten in one transaction.
type SQLiteStore struct {
	DB *sql.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &SQLiteStore{DB: conn}, nil
}

// Load reads the stored set. A database that cannot be read is reported as corrupt
// together with an empty set.
func (s *SQLiteStore) Load(ctx context.Context) ([]*words.WordEntry, error) {
	entries, err := db.LoadWords(ctx, s.DB)
	if err != nil {
		return []*words.WordEntry{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return entries, nil
}

// Save replaces the stored set atomically.
func (s *SQLiteStore) Save(ctx context.Context, entries []*words.WordEntry) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := db.ReplaceWords(ctx, tx, entries); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}
