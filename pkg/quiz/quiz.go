// Package quiz runs the interactive question loop.
package quiz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/vocabdrill/pkg/console"
	"github.com/japaniel/vocabdrill/pkg/words"
)

// RetryPrompt asks whether failed words should be repeated.
const RetryPrompt = "Repeat the words in which mistakes were made? (y/n)"

// Result is the tally of one pass.
type Result struct {
	Presented int
	// Failures keeps the order in which words were first missed.
	Failures []*words.WordEntry
}

// Passed is the number of words answered correctly.
func (r Result) Passed() int { return r.Presented - len(r.Failures) }

// Engine asks for each word in turn and records the outcome.
type Engine struct {
	In    *bufio.Reader
	Out   console.Output
	Today words.Date
}

func New(in io.Reader, out console.Output, today words.Date) *Engine {
	return &Engine{In: bufio.NewReader(in), Out: out, Today: today}
}

// Match reports whether input answers w. A nil or empty input always passes.
func Match(input *string, w *words.WordEntry) bool {
	if input == nil || *input == "" {
		return true
	}
	if strings.EqualFold(*input, w.Name) {
		return true
	}
	for _, a := range w.Alternates {
		if strings.EqualFold(*input, a.Name) {
			return true
		}
	}
	return false
}

// RunPass presents every word once. Correct answers mark the word reviewed today.
func (e *Engine) RunPass(ws []*words.WordEntry) Result {
	res := Result{Presented: len(ws)}
	for _, w := range ws {
		e.Out.Style(console.Default)
		e.Out.Line(w.Translation)

		if Match(e.readLine(), w) {
			w.MarkReviewed(e.Today)
			e.Out.Style(console.Success)
			e.Out.Line("SUCCESS")
		} else {
			res.Failures = append(res.Failures, w)
			e.Out.Style(console.Failure)
			e.Out.Line("FAIL")
			e.Out.Line("Right answer is: " + w.Name)
		}
		e.details(w)
		e.Out.Style(console.Default)
		e.Out.Line("")
	}
	return res
}

func (e *Engine) details(w *words.WordEntry) {
	e.Out.Style(console.Info)
	if w.Transcription != "" {
		e.Out.Line("Transcription: " + w.Transcription)
	}
	if len(w.Alternates) > 0 {
		names := make([]string, len(w.Alternates))
		for i, a := range w.Alternates {
			names[i] = a.Name
		}
		e.Out.Line("Synonyms:")
		e.Out.Line(strings.Join(names, ", "))
	}
	if len(w.Sentences) > 0 {
		e.Out.Line(fmt.Sprintf("Example sentences containing %s:", strings.ToUpper(w.Name)))
		for _, s := range w.Sentences {
			e.Out.Line(s)
		}
	}
}

// Summary prints the tally of a pass.
func (e *Engine) Summary(res Result) {
	e.Out.Style(console.Default)
	e.Out.Line(fmt.Sprintf("Correct answers: %d", res.Passed()))
	e.Out.Line(fmt.Sprintf("Wrong answers: %d", len(res.Failures)))
	e.Out.Line("")
}

// ConfirmRetry asks whether to repeat the failed words. Only a literal "y" agrees.
func (e *Engine) ConfirmRetry() bool {
	e.Out.Style(console.Default)
	e.Out.Line(RetryPrompt)
	answer := e.readLine()
	e.Out.Line("")
	return answer != nil && *answer == "y"
}

// readLine returns the next line without its terminator, or nil once input is
// exhausted.
func (e *Engine) readLine() *string {
	line, err := e.In.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil
	}
	line = strings.TrimRight(line, "\r\n")
	return &line
}
