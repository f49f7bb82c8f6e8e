package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"os/exec"
	"strings"
	"sync"
	"time"

	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"
	"combine-videos/internal/normalize"
)

// Workspace is where segments and the joined output are written.
type Workspace interface {
	Path(name string) string
	WriteFile(name string, data []byte) error
}

// CommandError is returned when ffmpeg exits unsuccessfully.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Transcoder runs ffmpeg, one process at a time.
type Transcoder struct {
	ffmpeg    string
	crf       int
	command   func(ctx context.Context, name string, args ...string) *exec.Cmd
	processes map[string]*exec.Cmd
	processMu sync.Mutex
}

// New creates a Transcoder. An empty path means "ffmpeg" looked up in PATH;
// a non-positive crf means DefaultCRF.
func New(ffmpegPath string, crf int) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if crf <= 0 {
		crf = DefaultCRF
	}
	return &Transcoder{
		ffmpeg:    ffmpegPath,
		crf:       crf,
		command:   exec.CommandContext,
		processes: make(map[string]*exec.Cmd),
	}
}

// Combine transcodes every input into ws in order, joins the segments and
// returns the path of the joined file inside ws. It stops at the first
// failure.
func (t *Transcoder) Combine(ctx context.Context, ws Workspace, inputs []string, g normalize.Geometry, fps *big.Rat) (string, error) {
	if len(inputs) == 0 {
		return "", fmt.Errorf("nothing to combine")
	}

	segments := make([]string, len(inputs))
	for i, in := range inputs {
		segments[i] = ws.Path(SegmentName(i))
		logging.Info("Transcoding [%d/%d] %s", i+1, len(inputs), in)

		err := t.Run(ctx, "transcode", TranscodeArgs(in, segments[i], g, fps, t.crf))
		if err != nil {
			metrics.TranscodesTotal.WithLabelValues("error").Inc()
			return "", fmt.Errorf("failed to transcode %s: %w", in, err)
		}
		metrics.TranscodesTotal.WithLabelValues("success").Inc()
	}

	if err := ws.WriteFile(ConcatListName, []byte(ConcatList(segments))); err != nil {
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}

	out := ws.Path(OutputName)
	logging.Info("Joining %d segments", len(segments))
	if err := t.Run(ctx, "concat", ConcatArgs(ws.Path(ConcatListName), out, fps)); err != nil {
		return "", fmt.Errorf("failed to join segments: %w", err)
	}
	return out, nil
}

// Run executes ffmpeg with args. stage labels the duration metric.
func (t *Transcoder) Run(ctx context.Context, stage string, args []string) error {
	line := CommandLine(t.ffmpeg, args)
	logging.Debug("Running: %s", line)

	cmd := t.command(ctx, t.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	key := args[len(args)-1]
	t.processMu.Lock()
	t.processes[key] = cmd
	t.processMu.Unlock()

	defer func() {
		t.processMu.Lock()
		delete(t.processes, key)
		t.processMu.Unlock()
	}()

	start := time.Now()
	err := cmd.Run()
	metrics.FFmpegDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Error("FFmpeg stderr: %s", tail(stderr.String(), 2000))
		return &CommandError{Command: line, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Cleanup kills any running ffmpeg process.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for path, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("Killing ffmpeg process for: %s", path)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill ffmpeg process for %s: %v", path, err)
			}
		}
	}
}

// tail returns at most n trailing bytes of s, starting on a line boundary
// when possible.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	return s
}
