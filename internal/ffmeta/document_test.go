package ffmeta

import (
	"strings"
	"testing"
)

func TestDocumentRenderSingleEntry(t *testing.T) {
	var doc Document
	doc.Set("TITLE", "Glyph")

	want := ";FFMETADATA1\nTITLE=Glyph\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestDocumentRenderEmpty(t *testing.T) {
	var doc Document
	want := ";FFMETADATA1\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestDocumentPreservesOrder(t *testing.T) {
	var doc Document
	doc.Set("TITLE", "t")
	doc.Set("ALBUM", "a")
	doc.Set("AUTHOR", "x")
	doc.Set("COMPOSER", "c")

	want := ";FFMETADATA1\nTITLE=t\nALBUM=a\nAUTHOR=x\nCOMPOSER=c\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestDocumentKeepsDuplicateKeys(t *testing.T) {
	var doc Document
	doc.Set("CUSTOM1", "first")
	doc.Set("CUSTOM1", "second")

	if doc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", doc.Len())
	}
	want := ";FFMETADATA1\nCUSTOM1=first\nCUSTOM1=second\n"
	if got := doc.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestDocumentEscapesValues(t *testing.T) {
	var doc Document
	doc.Set("TITLE", "a=b;c")
	doc.Set("AUTHOR", "line1\nline2\n")

	got := doc.Render()
	if !strings.Contains(got, "TITLE=a\\=b\\;c\n") {
		t.Errorf("specials not escaped: %q", got)
	}
	if !strings.Contains(got, "AUTHOR=line1\\\nline2\\\n\n") {
		t.Errorf("value newlines not turned into continuations: %q", got)
	}
}
