package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japaniel/vocabdrill/pkg/words"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReplaceWords deletes every stored word and writes the given set in order.
// Call it inside a transaction so a failed save leaves the previous snapshot.
func ReplaceWords(ctx context.Context, db DBExecutor, entries []*words.WordEntry) error {
	for _, table := range []string{"word_sentences", "word_alternates", "words"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, e := range entries {
		res, err := db.ExecContext(ctx,
			`INSERT INTO words (position, name, translation, transcription, reviewed_on) VALUES (?, ?, ?, ?, ?)`,
			i, e.Name, e.Translation, e.Transcription, nullableDate(e.Reviewed))
		if err != nil {
			return fmt.Errorf("insert word %q: %w", e.Name, err)
		}
		wordID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for j, s := range e.Sentences {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO word_sentences (word_id, position, text) VALUES (?, ?, ?)`, wordID, j, s); err != nil {
				return fmt.Errorf("insert sentence of %q: %w", e.Name, err)
			}
		}
		for j, a := range e.Alternates {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO word_alternates (word_id, position, name, translation) VALUES (?, ?, ?, ?)`,
				wordID, j, a.Name, a.Translation); err != nil {
				return fmt.Errorf("insert alternate of %q: %w", e.Name, err)
			}
		}
	}
	return nil
}

// LoadWords reads the stored set in the order it was written.
func LoadWords(ctx context.Context, db DBExecutor) ([]*words.WordEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, translation, transcription, reviewed_on FROM words ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var out []*words.WordEntry
	byID := make(map[int64]*words.WordEntry)
	for rows.Next() {
		var r wordRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Translation, &r.Transcription, &r.ReviewedOn); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		e := &words.WordEntry{Name: r.Name, Translation: r.Translation, Transcription: r.Transcription}
		if r.ReviewedOn.Valid && r.ReviewedOn.String != "" {
			d, err := words.ParseDate(r.ReviewedOn.String)
			if err != nil {
				return nil, fmt.Errorf("word %q: %w", r.Name, err)
			}
			e.Reviewed = d
		}
		out = append(out, e)
		byID[r.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := loadSentences(ctx, db, byID); err != nil {
		return nil, err
	}
	if err := loadAlternates(ctx, db, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func loadSentences(ctx context.Context, db DBExecutor, byID map[int64]*words.WordEntry) error {
	rows, err := db.QueryContext(ctx, `SELECT word_id, text FROM word_sentences ORDER BY word_id, position`)
	if err != nil {
		return fmt.Errorf("query sentences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var text string
		if err := rows.Scan(&id, &text); err != nil {
			return fmt.Errorf("scan sentence: %w", err)
		}
		if e, ok := byID[id]; ok {
			e.Sentences = append(e.Sentences, text)
		}
	}
	return rows.Err()
}

func loadAlternates(ctx context.Context, db DBExecutor, byID map[int64]*words.WordEntry) error {
	rows, err := db.QueryContext(ctx, `SELECT word_id, name, translation FROM word_alternates ORDER BY word_id, position`)
	if err != nil {
		return fmt.Errorf("query alternates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var a words.Alternate
		if err := rows.Scan(&id, &a.Name, &a.Translation); err != nil {
			return fmt.Errorf("scan alternate: %w", err)
		}
		if e, ok := byID[id]; ok {
			e.Alternates = append(e.Alternates, a)
		}
	}
	return rows.Err()
}

// nullableDate returns nil for a never-reviewed word else the date string.
func nullableDate(d words.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
