// Package harvest runs the configured sources and turns their pairs into word entries.
package harvest

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/japaniel/vocabdrill/pkg/dictionary"
	"github.com/japaniel/vocabdrill/pkg/source"
	"github.com/japaniel/vocabdrill/pkg/words"
)

// Inputs lists what the user supplied; empty fields disable the matching source.
type Inputs struct {
	PagesDir       string
	Credentials    source.Credentials
	Account        string
	LoginTimeout   time.Duration
	DictionaryPath string
	// OnLessonPage is told about each lesson page that yielded words.
	OnLessonPage   func(source.Page)
}

// Harvester concatenates the output of its sources in order. It does not deduplicate.
type Harvester struct {
	Sources   []source.Source
	Direction words.Direction
	Log       logrus.FieldLogger
}

// New builds a harvester with only the sources implied by the inputs. The
// dictionary file always runs last. provider may be nil when no credentials are given.
func New(in Inputs, provider source.VocabularyProvider, dir words.Direction, logger logrus.FieldLogger) *Harvester {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &Harvester{Direction: dir, Log: logger}
	if in.PagesDir != "" {
		h.Sources = append(h.Sources, source.LessonPages{Dir: in.PagesDir, Log: logger, OnPage: in.OnLessonPage})
	}
	if provider != nil && in.Credentials.Login != "" && in.Account != "" {
		h.Sources = append(h.Sources, source.RemoteVocabulary{
			Provider:     provider,
			Credentials:  in.Credentials,
			Account:      in.Account,
			LoginTimeout: in.LoginTimeout,
			Log:          logger,
		})
	}
	if in.DictionaryPath != "" {
		h.Sources = append(h.Sources, dictionary.File{Path: in.DictionaryPath})
	}
	return h
}

// Harvest runs every source. Source failures are logged and contribute nothing;
// only context cancellation is returned.
func (h *Harvester) Harvest(ctx context.Context) ([]words.WordEntry, error) {
	var entries []words.WordEntry
	for _, src := range h.Sources {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		log := h.Log.WithField("source", src.Name())
		pairs, err := src.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return entries, err
			}
			var perr *dictionary.ParseError
			if errors.As(err, &perr) {
				log.WithError(err).Error("dictionary file rejected, fix the line and rerun")
			} else {
				log.WithError(err).Warn("source failed")
			}
			continue
		}
		log.WithField("pairs", len(pairs)).Info("harvested")
		for _, p := range pairs {
			entries = append(entries, h.Direction.Apply(p))
		}
	}
	return entries, nil
}
