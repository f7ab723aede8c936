package dictionary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/japaniel/vocabdrill/pkg/words"
)

// Delimiter separates the name from the translation on every line.
const Delimiter = ':'

// ErrMalformedLine is wrapped by ParseError when a line has no name/translation split.
var ErrMalformedLine = errors.New("dictionary: malformed line")

// ParseError reports the first line that made the file unparseable.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dictionary: line %d: cannot delimit name in %q", e.Line, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrMalformedLine }

// Parse reads NAME:TRANSLATION records, one per line.
// The name is everything before the first delimiter, the translation is the rest
// of the line, and either may be empty. There is no escaping. Any line without
// a delimiter rejects the whole text.
func Parse(text string) ([]words.RawPair, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	// A final line terminator does not start a new record.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	pairs := make([]words.RawPair, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, translation, ok := strings.Cut(line, string(Delimiter))
		if !ok {
			return nil, &ParseError{Line: i + 1, Text: line}
		}
		pairs = append(pairs, words.RawPair{Term: name, Translation: translation})
	}
	return pairs, nil
}

// Load reads and parses a dictionary file.
func Load(path string) ([]words.RawPair, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", path, err)
	}
	return Parse(string(b))
}

// File is the harvest source for a personal dictionary file.
type File struct {
	Path string
}

func (f File) Name() string { return "dictionary" }

// Fetch loads the whole file; a malformed line yields no pairs at all.
func (f File) Fetch(ctx context.Context) ([]words.RawPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(f.Path)
}
