package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
	}{
		{
			name:     "plain name kept",
			input:    "ringtone.ogg",
			fallback: "input.ogg",
			want:     "ringtone.ogg",
		},
		{
			name:     "path components dropped",
			input:    "../../etc/passwd",
			fallback: "input.ogg",
			want:     "passwd",
		},
		{
			name:     "windows path components dropped",
			input:    `C:\Users\me\song.mp3`,
			fallback: "input.ogg",
			want:     "song.mp3",
		},
		{
			name:     "spaces and specials replaced",
			input:    "my song (final)!.ogg",
			fallback: "input.ogg",
			want:     "my_song__final__.ogg",
		},
		{
			name:     "leading dots trimmed",
			input:    "...hidden.ogg",
			fallback: "input.ogg",
			want:     "hidden.ogg",
		},
		{
			name:     "nothing left falls back",
			input:    "???",
			fallback: "input.ogg",
			want:     "input.ogg",
		},
		{
			name:     "empty falls back",
			input:    "",
			fallback: "input.ogg",
			want:     "input.ogg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input, tt.fallback)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanupRefusesOutsideTemp(t *testing.T) {
	if err := Cleanup("/definitely/not/tmp"); err == nil {
		t.Error("expected refusal for directory outside temp folder")
	}
}

func TestCleanupEmptyPathIsNoop(t *testing.T) {
	if err := Cleanup(""); err != nil {
		t.Errorf("Cleanup(\"\") error: %v", err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.ogg")
	dst := filepath.Join(dir, "sub", "dst.ogg")

	if err := os.WriteFile(src, []byte("audio-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile() error: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "audio-bytes" {
		t.Errorf("content lost: %q", got)
	}
}

func TestCopyFilePreservesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.ogg")
	dst := filepath.Join(dir, "dst.ogg")

	if err := os.WriteFile(src, []byte("opus-stream"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error: %v", err)
	}

	for _, path := range []string{src, dst} {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "opus-stream" {
			t.Errorf("%s content = %q", path, got)
		}
	}
}
