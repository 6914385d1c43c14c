// Package ffmpeg wraps the external ffmpeg/ffprobe binaries: codec probing,
// transcoding to the target Ogg/Opus form, and stream-copying metadata
// injection. All invocations capture stderr and surface it in the error.
package ffmpeg

import (
	"errors"
	"fmt"
	"os/exec"

	"glyphembed/internal/config"
)

// Error kinds surfaced by the tool boundary. Callers test with errors.Is and
// map them to exit codes or HTTP statuses.
var (
	// ErrToolUnavailable means a required external binary is not installed.
	ErrToolUnavailable = errors.New("external tool not found")
	// ErrToolFailed means an external process could not be started or exited
	// non-zero; the wrapped message carries the tool's diagnostics.
	ErrToolFailed = errors.New("external tool failed")
)

// Tools holds resolved paths to the external binaries. Paths are resolved
// once at construction and injected into callers; nothing mutates after Find.
type Tools struct {
	FFmpeg  string
	FFprobe string // empty when ffprobe is unavailable; Probe degrades to ""
}

// Find resolves the ffmpeg and ffprobe binaries. A configured path overrides
// PATH lookup. Missing ffmpeg is fatal; missing ffprobe only disables
// probing, which forces a transcode.
func Find(cfg config.Config) (*Tools, error) {
	ffmpeg := cfg.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffmpegPath, err := exec.LookPath(ffmpeg)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg (%s); install ffmpeg or set ffmpeg_path in the config", ErrToolUnavailable, ffmpeg)
	}

	ffprobe := cfg.FFprobePath
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	ffprobePath, err := exec.LookPath(ffprobe)
	if err != nil {
		ffprobePath = ""
	}

	return &Tools{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}
