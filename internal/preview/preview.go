package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"

	"github.com/disintegration/imaging"
)

// Poster dimensions and quality.
const (
	MaxWidth  = 320
	MaxHeight = 320
	Quality   = 80
)

// PathFor returns the poster path for a video: same directory and base
// name, .jpg extension.
func PathFor(video string) string {
	return strings.TrimSuffix(video, filepath.Ext(video)) + ".jpg"
}

// Generate extracts a frame from video with ffmpeg and writes the poster
// to dest.
func Generate(ctx context.Context, ffmpeg, video, dest string) error {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	start := time.Now()
	img, err := extractFrame(ctx, ffmpeg, video)
	metrics.FFmpegDuration.WithLabelValues("poster").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	return Write(img, dest)
}

// Write fits img into the poster box and saves it as JPEG.
func Write(img image.Image, dest string) error {
	thumb := imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	if err := imaging.Save(thumb, dest, imaging.JPEGQuality(Quality)); err != nil {
		return fmt.Errorf("failed to save poster: %w", err)
	}
	logging.Debug("Poster written: %s (%dx%d)", dest, thumb.Bounds().Dx(), thumb.Bounds().Dy())
	return nil
}

func extractFrame(ctx context.Context, ffmpeg, video string) (image.Image, error) {
	logging.Debug("Extracting video frame: %s", video)

	var stdout, stderr bytes.Buffer
	run := func(args ...string) error {
		stdout.Reset()
		stderr.Reset()
		cmd := exec.CommandContext(ctx, ffmpeg, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		return cmd.Run()
	}

	err := run("-nostdin", "-ss", "00:00:01", "-i", video, "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-")
	if err != nil || stdout.Len() == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Debug("FFmpeg seek attempt failed for %s: %v, retrying from start", video, err)

		if err := run("-nostdin", "-i", video, "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-"); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
		}
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", video)
	}

	img, err := imaging.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}
