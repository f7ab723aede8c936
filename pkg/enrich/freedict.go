package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/japaniel/vocabdrill/pkg/words"
)

const defaultFreeDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// FreeDictionary looks terms up in the FreeDictionary API.
type FreeDictionary struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        logrus.FieldLogger
}

// NewFreeDictionary creates a lookup against baseURL, or the public API when empty.
func NewFreeDictionary(baseURL string, timeout time.Duration, logger logrus.FieldLogger) *FreeDictionary {
	if baseURL == "" {
		baseURL = defaultFreeDictionaryURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FreeDictionary{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
		log:        logger.WithField("adapter", "freedict"),
	}
}

type apiEntry struct {
	Word      string        `json:"word"`
	Phonetic  string        `json:"phonetic"`
	Phonetics []apiPhonetic `json:"phonetics"`
	Meanings  []apiMeaning  `json:"meanings"`
}

type apiPhonetic struct {
	Text string `json:"text"`
}

type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
	Synonyms     []string        `json:"synonyms"`
}

type apiDefinition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
}

// Lookup returns nil, nil when the API does not know the term (HTTP 404).
func (p *FreeDictionary) Lookup(ctx context.Context, term string) (*Result, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(term)
	p.log.WithField("term", term).Debug("freedict request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, term)
	if err != nil {
		return nil, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freedict: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w", err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}
	return mapEntries(entries), nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *FreeDictionary) doWithRetry(ctx context.Context, req *http.Request, term string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	p.log.WithFields(logrus.Fields{"term": term, "reason": reason}).Warn("freedict retry")

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.retryDelay):
	}
	return p.httpClient.Do(req)
}

// mapEntries merges all etymologies of a term: examples in order, synonyms
// deduplicated, the first phonetic text as transcription.
func mapEntries(entries []apiEntry) *Result {
	res := &Result{}
	var synonyms []string
	for _, e := range entries {
		if res.Transcription == "" {
			res.Transcription = firstPhonetic(e)
		}
		for _, m := range e.Meanings {
			synonyms = append(synonyms, m.Synonyms...)
			for _, d := range m.Definitions {
				if ex := strings.TrimSpace(d.Example); ex != "" {
					res.Sentences = append(res.Sentences, `"`+ex+`"`)
				}
				synonyms = append(synonyms, d.Synonyms...)
			}
		}
	}
	for _, s := range lo.Uniq(synonyms) {
		res.Alternates = append(res.Alternates, words.Alternate{Name: s})
	}
	return res
}

func firstPhonetic(e apiEntry) string {
	if e.Phonetic != "" {
		return e.Phonetic
	}
	for _, ph := range e.Phonetics {
		if ph.Text != "" {
			return ph.Text
		}
	}
	return ""
}
