package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// InjectTags writes the rendered metadata document into a new container at
// dst, stream-copying the audio from src so the stream stays bit-identical.
// The document is fed to ffmpeg as a second virtual input on stdin.
func (t *Tools) InjectTags(ctx context.Context, src, dst, document string) error {
	args := []string{
		"-y",
		"-i", src,
		"-i", "-",
		"-map_metadata", "1",
		"-c:a", "copy",
		dst,
	}

	cmd := exec.CommandContext(ctx, t.FFmpeg, args...)
	cmd.Stdin = strings.NewReader(document)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: metadata write: %v\nDetails: %s", ErrToolFailed, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
