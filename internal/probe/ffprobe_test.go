package probe

import (
	"context"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

func TestArgs(t *testing.T) {
	want := []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "in.mov"}
	if got := Args("in.mov"); !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestNewFFprobeDefaultsPath(t *testing.T) {
	if p := NewFFprobe(""); p.path != "ffprobe" {
		t.Errorf("Expected default path ffprobe, got %s", p.path)
	}
	if p := NewFFprobe("/opt/ffmpeg/bin/ffprobe"); p.path != "/opt/ffmpeg/bin/ffprobe" {
		t.Errorf("Expected explicit path to be kept, got %s", p.path)
	}
}

func TestFFprobeMissingBinary(t *testing.T) {
	p := NewFFprobe(filepath.Join(t.TempDir(), "no-such-ffprobe"))
	if _, err := p.Probe(context.Background(), "whatever.mp4"); err == nil {
		t.Error("Expected error when ffprobe binary does not exist")
	}
}

func TestFFprobeNonMediaFile(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	path := writeVideo(t)
	if _, err := NewFFprobe("").Probe(context.Background(), path); err == nil {
		t.Error("Expected ffprobe to fail on a non-media file")
	}
}
