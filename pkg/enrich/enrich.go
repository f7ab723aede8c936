// Package enrich attaches example sentences, alternate answers and readings to
// the words of a session. Every step is best-effort.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/japaniel/vocabdrill/pkg/console"
	"github.com/japaniel/vocabdrill/pkg/words"
)

// DefaultMaxSentences caps how many example sentences a word keeps.
const DefaultMaxSentences = 5

// Result is what a lookup knows about a term.
type Result struct {
	Sentences     []string
	Alternates    []words.Alternate
	Transcription string
}

// Lookup queries an external dictionary. A nil result with a nil error means the
// term is unknown.
type Lookup interface {
	Lookup(ctx context.Context, term string) (*Result, error)
}

// Prober checks once whether the network is usable at all.
type Prober interface {
	Reachable(ctx context.Context) error
}

// Transcriber derives a pronunciation locally. An empty string means none.
type Transcriber interface {
	Transcribe(term string) string
}

// Report summarises one Run.
type Report struct {
	Skipped     bool
	Enriched    int
	Failed      int
	Transcribed int
}

// Enricher runs the lookups for a session.
type Enricher struct {
	Lookup       Lookup
	Probe        Prober
	Transcriber  Transcriber
	Direction    words.Direction
	MaxSentences int
	Log          logrus.FieldLogger
	Out          console.Output
}

// Run enriches ws in place. Local transcription always runs; network lookups are
// skipped when offline is set or the probe fails. A failed lookup leaves the word
// as it was and moves on.
func (e *Enricher) Run(ctx context.Context, ws []*words.WordEntry, offline bool) Report {
	log := e.logger()
	report := Report{Transcribed: e.transcribe(ws)}

	switch {
	case offline:
		log.Info("offline mode, skipping enrichment")
		report.Skipped = true
		return report
	case e.Lookup == nil:
		report.Skipped = true
		return report
	}
	if e.Probe != nil {
		if err := e.Probe.Reachable(ctx); err != nil {
			log.WithError(err).Warn("network unreachable, skipping enrichment")
			report.Skipped = true
			return report
		}
	}

	out := e.output()
	out.Style(console.Info)
	for i, w := range ws {
		if ctx.Err() != nil {
			break
		}
		out.Line(fmt.Sprintf("[%d/%d] %s", i+1, len(ws), w.Translation))

		term := e.Direction.Foreign(w)
		res, err := e.Lookup.Lookup(ctx, term)
		if err != nil {
			log.WithError(err).WithField("term", term).Warn("lookup failed")
			report.Failed++
			continue
		}
		if res == nil {
			log.WithField("term", term).Debug("term not found")
			continue
		}
		e.apply(w, res)
		report.Enriched++
	}
	out.Style(console.Default)

	log.WithFields(logrus.Fields{
		"enriched": report.Enriched,
		"failed":   report.Failed,
	}).Info("enrichment finished")
	return report
}

func (e *Enricher) transcribe(ws []*words.WordEntry) int {
	if e.Transcriber == nil {
		return 0
	}
	n := 0
	for _, w := range ws {
		if w.Transcription != "" {
			continue
		}
		if t := e.Transcriber.Transcribe(e.Direction.Foreign(w)); t != "" {
			w.Transcription = t
			n++
		}
	}
	return n
}

func (e *Enricher) apply(w *words.WordEntry, res *Result) {
	limit := e.MaxSentences
	if limit <= 0 {
		limit = DefaultMaxSentences
	}
	// A found term replaces whatever the store had cached for it.
	w.Sentences = nil
	if len(res.Sentences) > 0 {
		w.Sentences = append([]string(nil), res.Sentences[:min(limit, len(res.Sentences))]...)
	}

	// Alternates are looked up on the foreign term, so they are only valid answers
	// when the foreign term is what the user types.
	if e.Direction == words.NativeToForeign {
		w.Alternates = alternates(w, res.Alternates)
	}

	if w.Transcription == "" {
		w.Transcription = strings.TrimSpace(res.Transcription)
	}
}

func alternates(w *words.WordEntry, found []words.Alternate) []words.Alternate {
	var out []words.Alternate
	for _, a := range found {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" || strings.EqualFold(a.Name, w.Name) {
			continue
		}
		if strings.TrimSpace(a.Translation) == "" {
			a.Translation = w.Translation
		}
		out = append(out, a)
	}
	return lo.UniqBy(out, func(a words.Alternate) string { return strings.ToLower(a.Name) })
}

func (e *Enricher) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger().WithField("component", "enrich")
	}
	return e.Log.WithField("component", "enrich")
}

func (e *Enricher) output() console.Output {
	if e.Out == nil {
		return console.Discard{}
	}
	return e.Out
}
