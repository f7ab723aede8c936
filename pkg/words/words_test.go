package words

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityIgnoresEnrichment(t *testing.T) {
	a := WordEntry{Name: "cat", Translation: "кот"}
	b := WordEntry{
		Name:          "cat",
		Translation:   "кот",
		Transcription: "kæt",
		Sentences:     []string{"\"The cat sat.\""},
		Alternates:    []Alternate{{Name: "kitty", Translation: "кот"}},
	}
	assert.Equal(t, a.Identity(), b.Identity())

	c := WordEntry{Name: "Cat", Translation: "кот"}
	assert.NotEqual(t, a.Identity(), c.Identity(), "case is preserved in identity")
}

func TestReviewedToday(t *testing.T) {
	today := Today(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC))
	w := &WordEntry{Name: "dog"}
	assert.False(t, w.ReviewedToday(today))

	w.MarkReviewed(today)
	assert.True(t, w.ReviewedToday(today))

	tomorrow := Today(time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC))
	assert.False(t, w.ReviewedToday(tomorrow))
}

func TestDirectionApply(t *testing.T) {
	p := RawPair{Term: "dog", Translation: "собака", Transcription: "dɒɡ"}

	e := NativeToForeign.Apply(p)
	assert.Equal(t, "dog", e.Name)
	assert.Equal(t, "собака", e.Translation)
	assert.Equal(t, "dog", NativeToForeign.Foreign(&e))

	e = ForeignToNative.Apply(p)
	assert.Equal(t, "собака", e.Name)
	assert.Equal(t, "dog", e.Translation)
	assert.Equal(t, "dog", ForeignToNative.Foreign(&e))
	assert.Equal(t, "dɒɡ", e.Transcription)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Foreign-To-Native")
	require.NoError(t, err)
	assert.Equal(t, ForeignToNative, d)

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, NativeToForeign, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	w := WordEntry{Name: "cat", Translation: "кот", Reviewed: Date{Year: 2024, Month: time.May, Day: 2}}
	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"reviewed":"2024-05-02"`)

	var back WordEntry
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, w.Reviewed, back.Reviewed)

	var never WordEntry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","translation":"b","reviewed":null}`), &never))
	assert.True(t, never.Reviewed.IsZero())

	var stamped WordEntry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","translation":"b","reviewed":"2023-01-05T00:00:00+03:00"}`), &stamped))
	assert.Equal(t, Date{Year: 2023, Month: time.January, Day: 5}, stamped.Reviewed)

	b, err = json.Marshal(WordEntry{Name: "a"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"reviewed":null`)
}
