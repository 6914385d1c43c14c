package ffmeta

import "strings"

// NormalizeScript canonicalizes glyph script text for embedding: every line is
// stripped of trailing commas, spaces and tabs, given exactly one trailing
// comma, and terminated with CRLF (including the final line). The result is
// the UTF-8 byte form the companion firmware parses. Trailing whitespace
// before a comma is lost on purpose; downstream parsers rely on the cleaned
// form.
func NormalizeScript(text string) []byte {
	lines := splitLines(text)
	if len(lines) == 0 {
		// Empty input still produces one empty record.
		lines = []string{""}
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(strings.TrimRight(line, ", \t"))
		sb.WriteString(",\r\n")
	}
	return []byte(sb.String())
}

// splitLines splits on LF, CR or CRLF, dropping the terminators. A terminator
// at the end of the input does not open a trailing empty line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
