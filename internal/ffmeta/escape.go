package ffmeta

import "strings"

// valueEscaper escapes a tag value for the ffmetadata grammar. A Replacer
// never rescans replaced text, so the backslash rule cannot mangle the
// escapes inserted by the other rules. A raw newline becomes a backslash
// followed by a real newline (a line continuation in the format), not the
// two-character sequence "\n".
var valueEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"=", "\\=",
	";", "\\;",
	"#", "\\#",
	"\n", "\\\n",
)

// EscapeValue escapes arbitrary text for use as an ffmetadata tag value.
func EscapeValue(s string) string {
	return valueEscaper.Replace(s)
}
