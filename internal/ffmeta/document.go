package ffmeta

import "strings"

// Header is the ffmetadata format marker expected on the first line.
const Header = ";FFMETADATA1"

// Document is an ordered list of tag entries. Entry order is part of the
// output contract, so entries live in a slice rather than a map; Set never
// deduplicates or reorders.
type Document struct {
	entries []entry
}

type entry struct {
	key   string
	value string
}

// Set appends a tag entry. The value is stored raw and escaped at render
// time. Key validity is the caller's responsibility.
func (d *Document) Set(key, value string) {
	d.entries = append(d.entries, entry{key: key, value: value})
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Render produces the full ffmetadata document: the header line, then one
// KEY=escapedValue line per entry in insertion order, every line
// newline-terminated.
func (d *Document) Render() string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteByte('\n')
	for _, e := range d.entries {
		sb.WriteString(e.key)
		sb.WriteByte('=')
		sb.WriteString(EscapeValue(e.value))
		sb.WriteByte('\n')
	}
	return sb.String()
}
