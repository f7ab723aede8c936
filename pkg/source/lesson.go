package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-shiori/dom"
	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/japaniel/vocabdrill/pkg/reading"
	"github.com/japaniel/vocabdrill/pkg/words"
)

const (
	wordsetItemSelector = "div.wordset li"
	nameSelector        = "div.original > span.text"
	translationSelector = "div.translation"
)

var apostrophes = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"′", "'", // prime
	"`", "'",
)

// NormalizeApostrophes maps apostrophe look-alikes to a plain '.
func NormalizeApostrophes(s string) string {
	return apostrophes.Replace(s)
}

// ParseLessonPage extracts pairs from the list items of every wordset container.
// Items missing either field are dropped; they never fail the page. Ruby
// annotations are removed first so furigana does not leak into the term.
func ParseLessonPage(markup []byte) ([]words.RawPair, error) {
	doc, err := html.Parse(bytes.NewReader(reading.SanitizeRuby(markup)))
	if err != nil {
		return nil, fmt.Errorf("parse lesson page: %w", err)
	}

	var pairs []words.RawPair
	for _, li := range dom.QuerySelectorAll(doc, wordsetItemSelector) {
		name := NormalizeApostrophes(firstText(li, nameSelector))
		translation := firstText(li, translationSelector)
		if name == "" || translation == "" {
			continue
		}
		pairs = append(pairs, words.RawPair{Term: name, Translation: translation})
	}
	return pairs, nil
}

func firstText(n *html.Node, selector string) string {
	found := dom.QuerySelector(n, selector)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(dom.TextContent(found))
}

// Page describes one lesson page that yielded words.
type Page struct {
	Path  string
	Title string
	Pairs int
}

// LessonPages harvests every saved lesson page in a directory. OnPage, when set,
// is called for each page that yielded at least one pair.
type LessonPages struct {
	Dir    string
	Log    logrus.FieldLogger
	OnPage func(Page)
}

func (l LessonPages) Name() string { return "lesson-pages" }

// Fetch parses the pages in file-name order. A page that cannot be read or parsed
// is logged and skipped; only an unreadable directory is reported as an error.
func (l LessonPages) Fetch(ctx context.Context) ([]words.RawPair, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read pages dir %s: %v", ErrSourceUnavailable, l.Dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	log := l.logger()
	var pairs []words.RawPair
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return pairs, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(l.Dir, e.Name())
		markup, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("page", path).Warn("skipping unreadable lesson page")
			continue
		}
		found, err := ParseLessonPage(markup)
		if err != nil {
			log.WithError(err).WithField("page", path).Warn("skipping unparseable lesson page")
			continue
		}
		log.WithFields(logrus.Fields{
			"page":  path,
			"pairs": len(found),
		}).Debug("lesson page parsed")
		if l.OnPage != nil && len(found) > 0 {
			l.OnPage(Page{Path: path, Title: PageTitle(markup, path), Pairs: len(found)})
		}
		pairs = append(pairs, found...)
	}
	return pairs, nil
}

func (l LessonPages) logger() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}

// PageTitle returns the lesson title readability finds in the page, or the file
// name without its extension when there is none.
func PageTitle(markup []byte, path string) string {
	article, err := readability.FromReader(bytes.NewReader(markup), &url.URL{Scheme: "file", Path: path})
	if err == nil {
		if title := strings.TrimSpace(article.Title); title != "" {
			return title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
