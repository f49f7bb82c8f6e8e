package batch

import (
	"context"
	"errors"
	"math/big"

	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"
	"combine-videos/internal/normalize"
	"combine-videos/internal/probe"
)

// ErrNoProbedFiles is returned by Plan when no file produced usable metadata.
var ErrNoProbedFiles = errors.New("no input file could be probed")

// Reasons a file is left out of the statistics.
const (
	DropProbeFailed     = "probe_failed"
	DropNoVideo         = "no_video"
	DropInvalidGeometry = "invalid_geometry"
	DropInvalidFPS      = "invalid_fps"
)

// FileInfo is the metadata record for one input file. Width, Height and FPS
// are set together when Probed is true and left zero otherwise.
type FileInfo struct {
	Filename string
	Probed   bool
	Width    int
	Height   int
	FPS      *big.Rat

	// DropReason says why Probed is false.
	DropReason string
}

// Size returns the oriented geometry of a probed file.
func (f FileInfo) Size() normalize.Geometry {
	return normalize.Geometry{Width: f.Width, Height: f.Height}
}

// Batch is the ordered set of input files.
type Batch struct {
	Files []FileInfo
}

// Plan is the aggregate target the batch is normalized to.
type Plan struct {
	Size     normalize.Geometry
	FPS      *big.Rat
	Count    int
	Distinct []normalize.Geometry
}

// Collect probes every file in order, one at a time, and builds the batch.
// Probe failures are logged and recorded on the FileInfo; they never stop
// the loop. Only context cancellation returns an error.
func Collect(ctx context.Context, prober probe.Prober, files []string) (*Batch, error) {
	b := &Batch{Files: make([]FileInfo, 0, len(files))}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logging.Info("Probing [%d/%d] %s", i+1, len(files), f)
		if !LooksLikeVideo(f) {
			logging.Debug("  %s does not have a video extension", f)
		}

		info := Inspect(ctx, prober, f)
		if !info.Probed {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			metrics.FilesDropped.WithLabelValues(info.DropReason).Inc()
			logging.Warn("  %s excluded from size/fps statistics (%s); it will still be concatenated", f, info.DropReason)
		} else {
			logging.Info("  %dx%d @ %s fps", info.Width, info.Height, normalize.DisplayFPS(info.FPS))
		}
		b.Files = append(b.Files, info)
	}

	return b, nil
}

// Inspect probes a single file and fills in its record.
func Inspect(ctx context.Context, prober probe.Prober, filename string) FileInfo {
	info := FileInfo{Filename: filename}

	res, err := prober.Probe(ctx, filename)
	if err != nil {
		logging.Debug("  probe failed for %s: %v", filename, err)
		metrics.ProbesTotal.WithLabelValues("error").Inc()
		info.DropReason = DropProbeFailed
		return info
	}
	logging.Debug("  format=%s duration=%s size=%s", res.Format.FormatName, res.Format.Duration, res.Format.Size)

	video, audio := normalize.SelectStreams(res.Streams)
	if video == nil {
		metrics.ProbesTotal.WithLabelValues("no_video").Inc()
		info.DropReason = DropNoVideo
		return info
	}
	if audio == nil {
		logging.Debug("  %s has no audio stream", filename)
	}

	if raw := video.Tags.Rotate.Raw(); raw != "" {
		logging.Debug("  rotate tag %q", raw)
	}
	width, height := normalize.Orient(video.CodedWidth, video.CodedHeight, *video)
	if width <= 0 || height <= 0 {
		metrics.ProbesTotal.WithLabelValues("invalid").Inc()
		info.DropReason = DropInvalidGeometry
		return info
	}
	if !video.AvgFrameRate.Valid() {
		metrics.ProbesTotal.WithLabelValues("invalid").Inc()
		info.DropReason = DropInvalidFPS
		return info
	}

	metrics.ProbesTotal.WithLabelValues("success").Inc()
	info.Probed = true
	info.Width = width
	info.Height = height
	info.FPS = video.AvgFrameRate.Rat()
	return info
}

// Filenames returns every file in the batch, probed or not, in order.
func (b *Batch) Filenames() []string {
	out := make([]string, len(b.Files))
	for i, f := range b.Files {
		out[i] = f.Filename
	}
	return out
}

// Sizes returns the geometry of each probed file.
func (b *Batch) Sizes() []normalize.Geometry {
	var out []normalize.Geometry
	for _, f := range b.Files {
		if f.Probed {
			out = append(out, f.Size())
		}
	}
	return out
}

// FrameRates returns the frame rate of each probed file.
func (b *Batch) FrameRates() []*big.Rat {
	var out []*big.Rat
	for _, f := range b.Files {
		if f.Probed {
			out = append(out, f.FPS)
		}
	}
	return out
}

// ProbedCount returns how many files contribute to the statistics.
func (b *Batch) ProbedCount() int {
	n := 0
	for _, f := range b.Files {
		if f.Probed {
			n++
		}
	}
	return n
}

// DistinctSizes returns the probed sizes without duplicates, in first
// occurrence order.
func (b *Batch) DistinctSizes() []normalize.Geometry {
	return normalize.Distinct(b.Sizes())
}

// Plan computes the target geometry and frame rate.
func (b *Batch) Plan() (Plan, error) {
	sizes := b.Sizes()
	if len(sizes) == 0 {
		return Plan{}, ErrNoProbedFiles
	}
	return Plan{
		Size:     normalize.OptimalSize(sizes),
		FPS:      normalize.OptimalFPS(b.FrameRates()),
		Count:    len(sizes),
		Distinct: b.DistinctSizes(),
	}, nil
}
