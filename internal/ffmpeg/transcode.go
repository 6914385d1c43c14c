package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const (
	// opusCodec and oggExt identify audio that can be tagged without
	// re-encoding.
	opusCodec = "opus"
	oggExt    = ".ogg"
)

// NeedsTranscode reports whether the source must be re-encoded before
// tagging. Only opus audio already inside an Ogg container is taken as-is.
func NeedsTranscode(codec, ext string) bool {
	return codec != opusCodec || strings.ToLower(ext) != oggExt
}

// Transcode re-encodes src to stereo 48 kHz Opus at 128 kbit/s inside an Ogg
// container at dst.
func (t *Tools) Transcode(ctx context.Context, src, dst string) error {
	args := []string{
		"-y",
		"-i", src,
		"-ac", "2",
		"-ar", "48000",
		"-c:a", "libopus",
		"-b:a", "128k",
		dst,
	}

	cmd := exec.CommandContext(ctx, t.FFmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: transcode: %v\nDetails: %s", ErrToolFailed, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
