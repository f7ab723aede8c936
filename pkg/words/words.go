package words

import (
	"fmt"
	"strings"
)

// RawPair is a term/translation tuple as extracted by a single source adapter.
type RawPair struct {
	Term        string
	Translation string
	// Transcription is an optional pronunciation hint some sources carry.
	Transcription string
}

// Alternate is another accepted answer for a word, with its own translation.
type Alternate struct {
	Name        string `json:"name"`
	Translation string `json:"translation"`
}

// Identity is the deduplication key of a word. Case is preserved.
type Identity struct {
	Name        string
	Translation string
}

// WordEntry is a word in the study set together with its review history.
type WordEntry struct {
	Name          string      `json:"name"`
	Translation   string      `json:"translation"`
	Transcription string      `json:"transcription"`
	Sentences     []string    `json:"sentences"`
	Alternates    []Alternate `json:"alternates"`
	Reviewed      Date        `json:"reviewed"`
}

// Identity returns the key used for deduplication.
// Enrichment fields and transcription never participate.
func (w *WordEntry) Identity() Identity {
	return Identity{Name: w.Name, Translation: w.Translation}
}

// ReviewedToday reports whether the word was answered correctly on the given day.
func (w *WordEntry) ReviewedToday(today Date) bool {
	return !w.Reviewed.IsZero() && w.Reviewed.Equal(today)
}

// MarkReviewed records a successful review.
func (w *WordEntry) MarkReviewed(today Date) {
	w.Reviewed = today
}

// Direction decides which element of a pair is shown and which one is expected.
type Direction int

const (
	// NativeToForeign prompts with the translation and expects the foreign term.
	NativeToForeign Direction = iota
	// ForeignToNative prompts with the foreign term and expects the translation.
	ForeignToNative
)

func (d Direction) String() string {
	switch d {
	case ForeignToNative:
		return "foreign-to-native"
	default:
		return "native-to-foreign"
	}
}

// ParseDirection converts a configuration value into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native-to-foreign":
		return NativeToForeign, nil
	case "foreign-to-native":
		return ForeignToNative, nil
	default:
		return NativeToForeign, fmt.Errorf("unknown direction %q", s)
	}
}

// Apply turns a pair into a fresh entry. Name always holds the expected answer
// and Translation the prompt.
func (d Direction) Apply(p RawPair) WordEntry {
	e := WordEntry{
		Name:          p.Term,
		Translation:   p.Translation,
		Transcription: p.Transcription,
	}
	if d == ForeignToNative {
		e.Name, e.Translation = p.Translation, p.Term
	}
	return e
}

// Foreign returns the foreign-language side of an entry built with this direction.
func (d Direction) Foreign(w *WordEntry) string {
	if d == ForeignToNative {
		return w.Translation
	}
	return w.Name
}
