// Package reading produces kana readings for Japanese vocabulary.
package reading

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one morpheme of an analyzed term.
type Token struct {
	Surface  string // text as written (e.g. "行っ")
	BaseForm string // dictionary form (e.g. "行く")
	Reading  string // katakana pronunciation (e.g. "イッ"), empty if unknown
}

// Analyzer segments Japanese text with the IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer loads the dictionary. This takes a noticeable moment, so callers
// should build one analyzer and reuse it.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze splits text into tokens. Whitespace-only tokens are dropped.
func (a *Analyzer) Analyze(text string) []Token {
	var out []Token
	for _, tok := range a.t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		// IPA features: 6 is the lemma, 7 the reading.
		features := tok.Features()
		t := Token{Surface: tok.Surface, BaseForm: tok.Surface}
		if len(features) > 6 && features[6] != "*" {
			t.BaseForm = features[6]
		}
		if len(features) > 7 && features[7] != "*" {
			t.Reading = features[7]
		}
		out = append(out, t)
	}
	return out
}

// Transcribe returns the hiragana reading of term. Tokens the dictionary has no
// reading for keep their surface form. Terms without Japanese script yield "".
func (a *Analyzer) Transcribe(term string) string {
	if !ContainsJapanese(term) {
		return ""
	}
	var b strings.Builder
	for _, t := range a.Analyze(term) {
		if t.Reading != "" {
			b.WriteString(ToHiragana(t.Reading))
		} else {
			b.WriteString(ToHiragana(t.Surface))
		}
	}
	return b.String()
}

// LazyTranscriber loads the dictionary the first time a Japanese term shows up.
type LazyTranscriber struct {
	once sync.Once
	a    *Analyzer
	err  error
}

// Transcribe returns "" for non-Japanese terms and when the dictionary failed to load.
func (l *LazyTranscriber) Transcribe(term string) string {
	if !ContainsJapanese(term) {
		return ""
	}
	l.once.Do(func() { l.a, l.err = NewAnalyzer() })
	if l.err != nil {
		return ""
	}
	return l.a.Transcribe(term)
}

// Err reports a dictionary load failure, if one happened.
func (l *LazyTranscriber) Err() error { return l.err }

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// ContainsJapanese reports whether s has any kana or kanji.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby strips <rt> and <rp> elements so furigana does not get glued onto
// the base text when a page is flattened (e.g. "漢字" turning into "漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, nil)
	return reRP.ReplaceAll(cleaned, nil)
}
