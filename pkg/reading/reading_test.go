package reading

import (
	"testing"
)

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"ア", "あ"},
		{"ガ", "が"},
		{"パ", "ぱ"},
		{"ン", "ん"},
		{"ー", "ー"},
		{"abc", "abc"},
		{"あいう", "あいう"},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.in); got != tt.out {
			t.Errorf("ToHiragana(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}

func TestContainsJapanese(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"猫", true},
		{"ねこ", true},
		{"ネコ", true},
		{"cat", false},
		{"кот", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ContainsJapanese(tt.in); got != tt.want {
			t.Errorf("ContainsJapanese(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeRuby(t *testing.T) {
	in := []byte(`<ruby>漢字<rp>(</rp><RT class="x">かんじ</RT><rp>)</rp></ruby>`)
	want := `<ruby>漢字</ruby>`
	if got := string(SanitizeRuby(in)); got != want {
		t.Errorf("SanitizeRuby = %q; want %q", got, want)
	}
}

func TestTranscribe(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	tests := []struct {
		in, out string
	}{
		{"猫", "ねこ"},
		{"日本語", "にほんご"},
		{"cat", ""},
	}
	for _, tt := range tests {
		if got := a.Transcribe(tt.in); got != tt.out {
			t.Errorf("Transcribe(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}

func TestAnalyzeBaseForm(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	tokens := a.Analyze("行った")
	if len(tokens) == 0 {
		t.Fatal("no tokens")
	}
	if tokens[0].BaseForm != "行く" {
		t.Errorf("BaseForm = %q; want 行く", tokens[0].BaseForm)
	}
}

func TestLazyTranscriber(t *testing.T) {
	var l LazyTranscriber
	if got := l.Transcribe("cat"); got != "" {
		t.Errorf("Transcribe(cat) = %q; want empty", got)
	}
	if l.a != nil {
		t.Error("dictionary loaded for a non-Japanese term")
	}
	if got := l.Transcribe("猫"); got != "ねこ" {
		t.Errorf("Transcribe(猫) = %q; want ねこ", got)
	}
	if err := l.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}
