package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Probe returns the lowercase codec name of the first audio stream, or ""
// when probing is unavailable or fails. An empty result is never an error:
// the caller falls back to transcoding.
func (t *Tools) Probe(ctx context.Context, path string) string {
	if t.FFprobe == "" {
		return ""
	}

	cmd := exec.CommandContext(ctx, t.FFprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(stdout.String()))
}
