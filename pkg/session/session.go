// Package session selects the words presented in one training run.
package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/japaniel/vocabdrill/pkg/words"
)

var (
	ErrEmptyWordList = errors.New("session: the list of words is empty")
	ErrInvalidCount  = errors.New("session: count must be positive")
)

// NewRand returns a generator seeded from the clock. Every run gets a fresh order.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Build picks up to n words from all in random order. Words not reviewed today come
// first; if there are not enough of them the rest is filled from the start of the
// same permutation. No identity is selected twice.
func Build(all []*words.WordEntry, n int, today words.Date, rng *rand.Rand) ([]*words.WordEntry, error) {
	if len(all) == 0 {
		return nil, ErrEmptyWordList
	}
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	if rng == nil {
		rng = NewRand()
	}
	if n > len(all) {
		n = len(all)
	}

	perm := rng.Perm(len(all))
	picked := make([]*words.WordEntry, 0, n)
	chosen := make(map[words.Identity]struct{}, n)
	take := func(w *words.WordEntry) {
		if _, dup := chosen[w.Identity()]; dup {
			return
		}
		chosen[w.Identity()] = struct{}{}
		picked = append(picked, w)
	}

	for _, i := range perm {
		if len(picked) == n {
			break
		}
		if !all[i].ReviewedToday(today) {
			take(all[i])
		}
	}
	for _, i := range perm {
		if len(picked) == n {
			break
		}
		take(all[i])
	}
	return picked, nil
}
