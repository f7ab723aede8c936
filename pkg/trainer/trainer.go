// Package trainer wires harvesting, persistence, enrichment and the quiz into a
// single training run.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/japaniel/vocabdrill/pkg/console"
	"github.com/japaniel/vocabdrill/pkg/enrich"
	"github.com/japaniel/vocabdrill/pkg/harvest"
	"github.com/japaniel/vocabdrill/pkg/quiz"
	"github.com/japaniel/vocabdrill/pkg/session"
	"github.com/japaniel/vocabdrill/pkg/store"
	"github.com/japaniel/vocabdrill/pkg/words"
)

// ErrSave means the review progress could not be written. It is the only fatal
// failure of a run.
var ErrSave = errors.New("trainer: could not save the word store")

// Options are the per-run switches.
type Options struct {
	Count    int
	Offline  bool
	UseCache bool
}

// Outcome is what the caller reports to the user.
type Outcome struct {
	Empty       bool
	Total       int
	Presented   int
	Failed      int
	Retried     bool
	RetryFailed int
}

type Trainer struct {
	Store     store.Store
	Harvester *harvest.Harvester
	Enricher  *enrich.Enricher
	Engine    *quiz.Engine
	Log       logrus.FieldLogger
	Now       func() time.Time
	Rand      *rand.Rand
}

// Run performs one session: load, harvest and merge, pick, enrich, quiz, save,
// then one optional retry pass over the failures followed by another save.
func (t *Trainer) Run(ctx context.Context, opts Options) (Outcome, error) {
	log := t.logger()
	today := words.Today(t.now())

	var existing []*words.WordEntry
	if opts.UseCache {
		loaded, err := t.Store.Load(ctx)
		switch {
		case errors.Is(err, store.ErrCorruptSnapshot):
			log.WithError(err).Warn("word store is unreadable, starting with an empty one")
		case err != nil:
			return Outcome{}, err
		}
		existing = loaded
	}

	fresh, err := t.Harvester.Harvest(ctx)
	if err != nil {
		return Outcome{}, err
	}
	all := store.Merge(existing, fresh)
	log.WithFields(logrus.Fields{
		"stored": len(existing),
		"new":    len(all) - len(existing),
	}).Info("word list ready")

	picked, err := session.Build(all, opts.Count, today, t.Rand)
	if errors.Is(err, session.ErrEmptyWordList) {
		return Outcome{Empty: true}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	out := t.Engine.Out
	out.Style(console.Default)
	out.Line(fmt.Sprintf("Words for training: %d", len(picked)))
	out.Line(fmt.Sprintf("Imported words: %d", len(all)))
	if opts.UseCache {
		out.Line(fmt.Sprintf("Previously repeated words: %d", countReviewed(all, today)))
	}
	out.Line("")

	if t.Enricher != nil {
		t.Enricher.Run(ctx, picked, opts.Offline)
	}

	t.Engine.Today = today
	res := t.Engine.RunPass(picked)
	t.Engine.Summary(res)
	outcome := Outcome{Total: len(all), Presented: res.Presented, Failed: len(res.Failures)}

	if err := t.save(ctx, all); err != nil {
		return outcome, err
	}
	if len(res.Failures) == 0 || !t.Engine.ConfirmRetry() {
		return outcome, nil
	}

	retry := t.Engine.RunPass(res.Failures)
	t.Engine.Summary(retry)
	outcome.Retried = true
	outcome.RetryFailed = len(retry.Failures)

	return outcome, t.save(ctx, all)
}

func (t *Trainer) save(ctx context.Context, all []*words.WordEntry) error {
	// a cancelled run still gets its progress written
	if err := t.Store.Save(context.WithoutCancel(ctx), all); err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	t.logger().WithField("words", len(all)).Debug("word store saved")
	return nil
}

func countReviewed(ws []*words.WordEntry, today words.Date) int {
	n := 0
	for _, w := range ws {
		if w.ReviewedToday(today) {
			n++
		}
	}
	return n
}

func (t *Trainer) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func (t *Trainer) logger() logrus.FieldLogger {
	if t.Log == nil {
		return logrus.StandardLogger()
	}
	return t.Log
}
