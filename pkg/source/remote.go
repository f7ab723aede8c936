package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/japaniel/vocabdrill/pkg/words"
)

// MeaningBatchSize is the largest number of ids the remote service resolves per call.
const MeaningBatchSize = 10

// DefaultLoginTimeout bounds the login stage when none is configured.
const DefaultLoginTimeout = 30 * time.Second

// Credentials authenticate against the remote vocabulary service.
type Credentials struct {
	Login    string
	Password string
}

// MemberPage is one page of meaning ids belonging to a vocabulary set.
type MemberPage struct {
	MeaningIDs []int64
	LastPage   int
}

// Meaning is a resolved vocabulary record.
type Meaning struct {
	ID            int64
	Text          string
	Translation   string
	Transcription string
}

// VocabularyProvider is the credential-gated content the remote adapter depends on.
// Pages are numbered from 1.
type VocabularyProvider interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	ListSets(ctx context.Context, token, account string) ([]int64, error)
	ListSetMembers(ctx context.Context, token string, setID int64, page int) (MemberPage, error)
	ResolveMeanings(ctx context.Context, token string, ids []int64) ([]Meaning, error)
}

// RemoteVocabulary harvests an account's vocabulary sets. It is all-or-nothing: any
// failing stage discards everything fetched so far.
type RemoteVocabulary struct {
	Provider     VocabularyProvider
	Credentials  Credentials
	Account      string
	LoginTimeout time.Duration
	Log          logrus.FieldLogger
}

func (r RemoteVocabulary) Name() string { return "remote" }

// Fetch runs login, set listing, member paging and batched resolution in order.
func (r RemoteVocabulary) Fetch(ctx context.Context) ([]words.RawPair, error) {
	pairs, err := r.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return pairs, nil
}

func (r RemoteVocabulary) fetch(ctx context.Context) ([]words.RawPair, error) {
	token, err := r.login(ctx)
	if err != nil {
		return nil, err
	}

	setIDs, err := r.Provider.ListSets(ctx, token, r.Account)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	setIDs = lo.Uniq(setIDs)

	var memberIDs []int64
	for _, setID := range setIDs {
		ids, err := r.members(ctx, token, setID)
		if err != nil {
			return nil, err
		}
		memberIDs = append(memberIDs, ids...)
	}
	memberIDs = lo.Uniq(memberIDs)

	r.logger().WithFields(logrus.Fields{
		"sets":     len(setIDs),
		"meanings": len(memberIDs),
	}).Debug("resolving remote meanings")

	pairs := make([]words.RawPair, 0, len(memberIDs))
	for _, batch := range lo.Chunk(memberIDs, MeaningBatchSize) {
		meanings, err := r.Provider.ResolveMeanings(ctx, token, batch)
		if err != nil {
			return nil, fmt.Errorf("resolve meanings: %w", err)
		}
		for _, m := range meanings {
			term := NormalizeApostrophes(strings.TrimSpace(m.Text))
			translation := strings.TrimSpace(m.Translation)
			if term == "" || translation == "" {
				continue
			}
			pairs = append(pairs, words.RawPair{
				Term:          term,
				Translation:   translation,
				Transcription: strings.TrimSpace(m.Transcription),
			})
		}
	}
	return pairs, nil
}

func (r RemoteVocabulary) login(ctx context.Context) (string, error) {
	timeout := r.LoginTimeout
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	loginCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := r.Provider.Login(loginCtx, r.Credentials)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("login: empty session token")
	}
	return token, nil
}

// members pages through a set until the last page or an empty page.
func (r RemoteVocabulary) members(ctx context.Context, token string, setID int64) ([]int64, error) {
	var ids []int64
	for page := 1; ; page++ {
		mp, err := r.Provider.ListSetMembers(ctx, token, setID, page)
		if err != nil {
			return nil, fmt.Errorf("list members of set %d page %d: %w", setID, page, err)
		}
		ids = append(ids, mp.MeaningIDs...)
		if len(mp.MeaningIDs) == 0 || page >= mp.LastPage {
			return ids, nil
		}
	}
}

func (r RemoteVocabulary) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log.WithField("source", r.Name())
}
