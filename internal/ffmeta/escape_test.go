package ffmeta

import (
	"strings"
	"testing"
)

func TestEscapeValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "Glyph Tools",
			want:  "Glyph Tools",
		},
		{
			name:  "all specials and newline",
			input: "a=b;c#d\\e\nf",
			want:  "a\\=b\\;c\\#d\\\\e\\\nf",
		},
		{
			name:  "backslash doubled",
			input: "\\",
			want:  "\\\\",
		},
		{
			name:  "backslash before special not tripled",
			input: "\\=",
			want:  "\\\\\\=",
		},
		{
			name:  "newline becomes continuation",
			input: "line1\nline2",
			want:  "line1\\\nline2",
		},
		{
			name:  "crlf leaves cr alone",
			input: "a\r\nb",
			want:  "a\r\\\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeValue(tt.input)
			if got != tt.want {
				t.Errorf("EscapeValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeValueNoUnescapedSpecials(t *testing.T) {
	inputs := []string{
		"a=b;c#d\\e\nf",
		"== ;; ## \\\\",
		"base64+block/with=padding\nand#comment",
	}

	for _, input := range inputs {
		out := EscapeValue(input)
		for i := 0; i < len(out); i++ {
			switch out[i] {
			case '\\':
				if i+1 >= len(out) {
					t.Errorf("dangling backslash at end of %q", out)
					continue
				}
				i++ // next char is consumed by the escape
			case '=', ';', '#', '\n':
				t.Errorf("unescaped %q at %d in %q (input %q)", out[i], i, out, input)
			}
		}
	}
}

func TestEscapeValueNewlineIsReal(t *testing.T) {
	out := EscapeValue("a\nb")
	if !strings.Contains(out, "\\\n") {
		t.Fatalf("expected backslash + real newline, got %q", out)
	}
	if out != "a\\\nb" {
		t.Fatalf("EscapeValue(%q) = %q, want backslash followed by real newline", "a\nb", out)
	}
}
