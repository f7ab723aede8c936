// Package console is the output port shared by the quiz and the enrichment
// progress display.
package console

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Style selects how following lines are rendered.
type Style int

const (
	Default Style = iota
	Success
	Failure
	Info
)

// Output receives user-facing lines. Style applies to every Line until changed.
type Output interface {
	Style(Style)
	Line(string)
}

// Console writes colored lines to a terminal. Colors are dropped automatically
// when the writer is not a TTY.
type Console struct {
	w       io.Writer
	current Style
	palette map[Style]*color.Color
}

func New(w io.Writer) *Console {
	return &Console{
		w: w,
		palette: map[Style]*color.Color{
			Default: color.New(color.FgWhite),
			Success: color.New(color.FgGreen),
			Failure: color.New(color.FgRed),
			Info:    color.New(color.FgHiBlack),
		},
	}
}

func (c *Console) Style(s Style) { c.current = s }

func (c *Console) Line(s string) {
	p, ok := c.palette[c.current]
	if !ok {
		p = c.palette[Default]
	}
	_, _ = p.Fprintln(c.w, s)
}

// Entry is one line captured by a Recorder.
type Entry struct {
	Style Style
	Text  string
}

// Recorder keeps every line in memory. Used in tests.
type Recorder struct {
	Entries []Entry
	current Style
}

func (r *Recorder) Style(s Style) { r.current = s }

func (r *Recorder) Line(s string) {
	r.Entries = append(r.Entries, Entry{Style: r.current, Text: s})
}

// Lines returns the recorded text without styles.
func (r *Recorder) Lines() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Text
	}
	return out
}

// Text joins all lines with newlines.
func (r *Recorder) Text() string {
	return strings.Join(r.Lines(), "\n")
}

// Discard drops all output.
type Discard struct{}

func (Discard) Style(Style) {}
func (Discard) Line(string) {}
