package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/dom"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/japaniel/vocabdrill/pkg/words"
)

const defaultSentenceStackURL = "https://sentencestack.com"

// SentenceStack scrapes example sentences and synonyms from a sentencestack page.
type SentenceStack struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewSentenceStack creates a lookup against baseURL, or the public site when empty.
func NewSentenceStack(baseURL string, timeout time.Duration, logger logrus.FieldLogger) *SentenceStack {
	if baseURL == "" {
		baseURL = defaultSentenceStackURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SentenceStack{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.WithField("adapter", "sentencestack"),
	}
}

func (s *SentenceStack) Lookup(ctx context.Context, term string) (*Result, error) {
	reqURL := s.baseURL + "/q/" + url.PathEscape(term)
	s.log.WithField("term", term).Debug("sentencestack request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sentencestack: create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentencestack: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sentencestack: unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("sentencestack: parse page: %w", err)
	}
	return parseSentencePage(doc), nil
}

func parseSentencePage(doc *html.Node) *Result {
	res := &Result{}
	for _, n := range dom.QuerySelectorAll(doc, "div.sentence") {
		text := strings.TrimSpace(dom.TextContent(n))
		if text == "" {
			continue
		}
		res.Sentences = append(res.Sentences, `"`+text+`"`)
	}

	var names []string
	for _, n := range dom.QuerySelectorAll(doc, "div.synonym") {
		a := dom.QuerySelector(n, "a")
		if a == nil {
			continue
		}
		if name := strings.TrimSpace(dom.TextContent(a)); name != "" {
			names = append(names, name)
		}
	}
	// the page carries no translations; the enricher fills in the parent's
	for _, name := range lo.Uniq(names) {
		res.Alternates = append(res.Alternates, words.Alternate{Name: name})
	}
	return res
}
