package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves sets of meaning ids paged two at a time.
type fakeProvider struct {
	sets     map[int64][]int64
	setOrder []int64
	perPage  int

	loginErr   error
	listErr    error
	membersErr error
	resolveErr error

	resolveCalls [][]int64
	memberCalls  int
}

func (f *fakeProvider) Login(ctx context.Context, creds Credentials) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("login called without a deadline")
	}
	return "token-" + creds.Login, nil
}

func (f *fakeProvider) ListSets(_ context.Context, token, account string) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.setOrder, nil
}

func (f *fakeProvider) ListSetMembers(_ context.Context, token string, setID int64, page int) (MemberPage, error) {
	f.memberCalls++
	if f.membersErr != nil {
		return MemberPage{}, f.membersErr
	}
	ids := f.sets[setID]
	per := f.perPage
	if per == 0 {
		per = 2
	}
	last := (len(ids) + per - 1) / per
	start := (page - 1) * per
	if start >= len(ids) {
		return MemberPage{LastPage: last}, nil
	}
	end := min(start+per, len(ids))
	return MemberPage{MeaningIDs: ids[start:end], LastPage: last}, nil
}

func (f *fakeProvider) ResolveMeanings(_ context.Context, token string, ids []int64) ([]Meaning, error) {
	f.resolveCalls = append(f.resolveCalls, append([]int64(nil), ids...))
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	out := make([]Meaning, 0, len(ids))
	for _, id := range ids {
		out = append(out, Meaning{ID: id, Text: fmt.Sprintf("word%d", id), Translation: fmt.Sprintf("слово%d", id)})
	}
	return out, nil
}

func newRemote(p VocabularyProvider) RemoteVocabulary {
	return RemoteVocabulary{
		Provider:     p,
		Credentials:  Credentials{Login: "user", Password: "secret"},
		Account:      "42",
		LoginTimeout: time.Second,
		Log:          discardLogger(),
	}
}

func seq(from, to int64) []int64 {
	var out []int64
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestRemoteResolvesInBatchesOfTen(t *testing.T) {
	p := &fakeProvider{
		sets:     map[int64][]int64{1: seq(1, 15), 2: seq(16, 25)},
		setOrder: []int64{1, 2},
		perPage:  4,
	}
	pairs, err := newRemote(p).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 25)

	require.Len(t, p.resolveCalls, 3)
	assert.Len(t, p.resolveCalls[0], 10)
	assert.Len(t, p.resolveCalls[1], 10)
	assert.Len(t, p.resolveCalls[2], 5)
}

func TestRemoteDeduplicatesSetsAndMembers(t *testing.T) {
	p := &fakeProvider{
		sets:     map[int64][]int64{1: {1, 2, 3}, 2: {3, 4}},
		setOrder: []int64{1, 2, 1},
	}
	pairs, err := newRemote(p).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 4)
	require.Len(t, p.resolveCalls, 1)
	assert.Equal(t, []int64{1, 2, 3, 4}, p.resolveCalls[0])
	// set 1 has two pages and set 2 one; the repeated set id is not paged again
	assert.Equal(t, 3, p.memberCalls)
}

func TestRemoteIsAllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	cases := map[string]*fakeProvider{
		"login":   {loginErr: boom},
		"sets":    {listErr: boom},
		"members": {setOrder: []int64{1}, sets: map[int64][]int64{1: {1}}, membersErr: boom},
		"resolve": {setOrder: []int64{1}, sets: map[int64][]int64{1: seq(1, 30)}, resolveErr: boom},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			pairs, err := newRemote(p).Fetch(context.Background())
			assert.Nil(t, pairs)
			assert.ErrorIs(t, err, ErrSourceUnavailable)
		})
	}
}

func TestRemoteSkipsBlankMeanings(t *testing.T) {
	p := &blankMeaningProvider{fakeProvider{setOrder: []int64{1}, sets: map[int64][]int64{1: {1, 2}}}}
	pairs, err := newRemote(p).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "it's", pairs[0].Term)
	assert.Equal(t, "ɪts", pairs[0].Transcription)
}

type blankMeaningProvider struct{ fakeProvider }

func (b *blankMeaningProvider) ResolveMeanings(_ context.Context, _ string, ids []int64) ([]Meaning, error) {
	return []Meaning{
		{ID: 1, Text: " it’s ", Translation: "это", Transcription: "ɪts"},
		{ID: 2, Text: "ghost", Translation: ""},
	}, nil
}
