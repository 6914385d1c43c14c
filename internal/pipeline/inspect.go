package pipeline

import (
	"fmt"

	"go.senan.xyz/taglib"

	"glyphembed/internal/ffmeta"
)

// GlyphInfo is the decoded glyph payload read back from a tagged file.
type GlyphInfo struct {
	Title    string
	Album    string
	Composer string
	Custom2  string
	Script   string // normalized CSV decoded from the AUTHOR tag
}

// Inspect reads a tagged container and decodes the embedded glyph script.
func Inspect(path string) (*GlyphInfo, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	author := firstTag(tags, "AUTHOR")
	if author == "" {
		return nil, fmt.Errorf("no glyph payload in %s: AUTHOR tag missing or empty", path)
	}

	raw, err := ffmeta.DecodeBlock(author)
	if err != nil {
		return nil, fmt.Errorf("failed to decode glyph payload: %w", err)
	}

	return &GlyphInfo{
		Title:    firstTag(tags, taglib.Title),
		Album:    firstTag(tags, taglib.Album),
		Composer: firstTag(tags, "COMPOSER"),
		Custom2:  firstTag(tags, "CUSTOM2"),
		Script:   string(raw),
	}, nil
}

// verifyTags confirms the written container round-trips: the AUTHOR tag must
// decode back to the normalized form of the submitted script.
func verifyTags(path, script string) error {
	info, err := Inspect(path)
	if err != nil {
		return fmt.Errorf("output verification failed: %w", err)
	}
	if want := string(ffmeta.NormalizeScript(script)); info.Script != want {
		return fmt.Errorf("output verification failed: decoded glyph payload does not match input")
	}
	return nil
}

func firstTag(tags map[string][]string, key string) string {
	if vals := tags[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
