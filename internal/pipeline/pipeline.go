package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"glyphembed/internal/config"
	"glyphembed/internal/ffmeta"
	"glyphembed/internal/ffmpeg"
	"glyphembed/internal/logger"
	"glyphembed/pkg/utils"
)

// Request describes one embed operation.
type Request struct {
	AudioPath string // source audio on disk
	Ext       string // original filename extension, including the dot
	Script    string // raw glyph script text
	Title     string // display title; config default when empty
}

// Run executes the embed pipeline: probe the source, transcode to Ogg/Opus
// when needed (byte-copy otherwise), build the metadata document, and write a
// new container with the tags injected and the audio stream copied untouched.
// The returned path lives inside tmpDir; the caller owns tmpDir cleanup.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger, tools *ffmpeg.Tools, tmpDir string, req Request) (string, error) {
	workPath := filepath.Join(tmpDir, "work.ogg")

	codec := tools.Probe(ctx, req.AudioPath)
	log.Debug("Probed codec: %q", codec)

	if ffmpeg.NeedsTranscode(codec, req.Ext) {
		log.Info("Transcoding to Ogg/Opus (codec %q, extension %q)", codec, req.Ext)
		if err := tools.Transcode(ctx, req.AudioPath, workPath); err != nil {
			return "", err
		}
	} else {
		log.Debug("Source is already Opus in Ogg, staging without re-encode")
		if err := utils.CopyFile(req.AudioPath, workPath); err != nil {
			return "", fmt.Errorf("failed to stage source audio: %w", err)
		}
	}

	document, err := BuildDocument(cfg, req.Title, req.Script)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(tmpDir, "tagged.ogg")
	if err := tools.InjectTags(ctx, workPath, outPath, document); err != nil {
		return "", err
	}

	if err := verifyTags(outPath, req.Script); err != nil {
		return "", err
	}

	log.Debug("Tagged container written: %s", outPath)
	return outPath, nil
}

// BuildDocument assembles the full ffmetadata document for a glyph embed.
// Entry order matches what the companion firmware expects and is preserved
// verbatim by the renderer.
func BuildDocument(cfg config.Config, title, script string) (string, error) {
	if title == "" {
		title = cfg.DefaultTitle
	}

	author, err := ffmeta.EncodeScript(script)
	if err != nil {
		return "", fmt.Errorf("failed to encode glyph script: %w", err)
	}

	// CUSTOM1 carries no payload yet, but the tag must be present as an
	// encoded empty block.
	custom1, err := ffmeta.EncodeBytes(nil)
	if err != nil {
		return "", fmt.Errorf("failed to encode empty block: %w", err)
	}

	var doc ffmeta.Document
	doc.Set("TITLE", title)
	doc.Set("ALBUM", cfg.Album)
	doc.Set("AUTHOR", author)
	doc.Set("COMPOSER", cfg.Composer)
	doc.Set("CUSTOM1", custom1)
	doc.Set("CUSTOM2", cfg.Custom2)
	return doc.Render(), nil
}
