package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"
)

// ErrEmptyOutput is returned when ffprobe exits cleanly but prints nothing.
var ErrEmptyOutput = errors.New("ffprobe produced no output")

// Prober extracts stream metadata from a single media file.
type Prober interface {
	Probe(ctx context.Context, path string) (*Result, error)
}

// FFprobe runs the ffprobe binary once per call.
type FFprobe struct {
	path string
}

// NewFFprobe creates a prober using the given binary. An empty path means
// "ffprobe" looked up in PATH.
func NewFFprobe(path string) *FFprobe {
	if path == "" {
		path = "ffprobe"
	}
	return &FFprobe{path: path}
}

// Args returns the ffprobe arguments used for a file.
func Args(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
}

// Probe runs ffprobe and decodes its output.
func (f *FFprobe) Probe(ctx context.Context, path string) (*Result, error) {
	data, err := f.Raw(ctx, path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Raw runs ffprobe and returns its validated JSON output.
func (f *FFprobe) Raw(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, f.path, Args(path)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	if stdout.Len() == 0 {
		return nil, ErrEmptyOutput
	}
	if !json.Valid(stdout.Bytes()) {
		return nil, fmt.Errorf("ffprobe output for %s is not valid JSON", path)
	}

	logging.Debug("ffprobe %s: %d bytes", path, stdout.Len())
	return stdout.Bytes(), nil
}

// Decode parses an ffprobe JSON document.
func Decode(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode ffprobe output: %w", err)
	}
	return &res, nil
}
