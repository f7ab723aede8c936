package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabdrill/pkg/words"
)

func setupTestDB(t *testing.T) *sql.DB {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInitDBCreatesTables(t *testing.T) {
	conn := setupTestDB(t)
	for _, table := range []string{"words", "word_sentences", "word_alternates"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
	// running migrations twice is harmless
	require.NoError(t, InitDB(context.Background(), conn))
}

func TestReplaceAndLoadWords(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	day := words.Date{Year: 2024, Month: time.June, Day: 1}

	first := []*words.WordEntry{
		{Name: "cat", Translation: "кот", Reviewed: day,
			Sentences:  []string{"\"A cat.\"", "\"Two cats.\""},
			Alternates: []words.Alternate{{Name: "kitty", Translation: "кот"}}},
		{Name: "dog", Translation: "собака", Transcription: "dɒɡ"},
	}
	require.NoError(t, ReplaceWords(ctx, conn, first))

	got, err := LoadWords(ctx, conn)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, *first[0], *got[0])
	assert.Equal(t, "dɒɡ", got[1].Transcription)
	assert.True(t, got[1].Reviewed.IsZero())
	assert.Empty(t, got[1].Sentences)

	var reviewed int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM words WHERE reviewed_on = ?", day.String()).Scan(&reviewed))
	assert.Equal(t, 1, reviewed)

	// a second save replaces the snapshot wholesale
	require.NoError(t, ReplaceWords(ctx, conn, []*words.WordEntry{{Name: "owl", Translation: "сова"}}))
	got, err = LoadWords(ctx, conn)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "owl", got[0].Name)

	var sentences int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM word_sentences").Scan(&sentences))
	assert.Zero(t, sentences)
}

func TestReplaceWordsRejectsDuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = ReplaceWords(ctx, tx, []*words.WordEntry{
		{Name: "cat", Translation: "кот"},
		{Name: "cat", Translation: "кот"},
	})
	assert.Error(t, err)
}
