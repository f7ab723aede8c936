// Package source holds the adapters that turn producer payloads into raw pairs.
package source

import (
	"context"
	"errors"

	"github.com/japaniel/vocabdrill/pkg/words"
)

// ErrSourceUnavailable marks a source that produced nothing because it could not be reached
// or read.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source yields raw pairs for one harvest run.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]words.RawPair, error)
}
