package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"time"

	"combine-videos/internal/batch"
	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"
	"combine-videos/internal/normalize"
	"combine-videos/internal/preview"
	"combine-videos/internal/probe"
	"combine-videos/internal/prompt"
	"combine-videos/internal/transcoder"
	"combine-videos/internal/workspace"
)

// ErrNoFiles is returned when the input list is empty after cleaning.
var ErrNoFiles = errors.New("no input files")

// Combiner transcodes and joins inputs inside a workspace.
type Combiner interface {
	Combine(ctx context.Context, ws transcoder.Workspace, inputs []string, g normalize.Geometry, fps *big.Rat) (string, error)
}

// PosterFunc writes a poster image for video at dest.
type PosterFunc func(ctx context.Context, video, dest string) error

// Config is the per-run configuration.
type Config struct {
	Files   []string
	WorkDir string // empty means workspace.DefaultBase
	Prefix  string // empty means workspace.DefaultPrefix
}

// Deps are the collaborators of a run. Notifier and Poster may be nil.
type Deps struct {
	Prober   probe.Prober
	Prompter prompt.Prompter
	Notifier prompt.Notifier
	Combiner Combiner
	Poster   PosterFunc
}

// Summary describes a finished run.
type Summary struct {
	Output   string
	Poster   string
	Size     normalize.Geometry
	FPS      *big.Rat
	Files    int
	Probed   int
	Duration time.Duration
}

// Run executes one job. It returns prompt.ErrCancelled if the user backs
// out and batch.ErrNoProbedFiles if no input could be probed.
func Run(ctx context.Context, cfg Config, deps Deps) (summary Summary, err error) {
	start := time.Now()
	defer func() {
		switch {
		case err == nil:
			metrics.RunsTotal.WithLabelValues(metrics.ResultCompleted).Inc()
		case errors.Is(err, prompt.ErrCancelled):
			metrics.RunsTotal.WithLabelValues(metrics.ResultCancelled).Inc()
		default:
			metrics.RunsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		}
	}()

	files := batch.SortFiles(cfg.Files)
	if len(files) == 0 {
		return Summary{}, ErrNoFiles
	}

	b, err := batch.Collect(ctx, deps.Prober, files)
	if err != nil {
		return Summary{}, err
	}

	plan, err := b.Plan()
	if err != nil {
		return Summary{}, err
	}
	logging.Info("Optimal size %s, fps %s from %d of %d files",
		plan.Size, normalize.DisplayFPS(plan.FPS), plan.Count, len(files))

	resp, err := deps.Prompter.Ask(ctx, prompt.Request{
		Count:    plan.Count,
		Size:     plan.Size,
		FPS:      plan.FPS,
		Distinct: plan.Distinct,
	})
	if err != nil {
		return Summary{}, err
	}

	size := normalize.ResolveGeometry(plan.Size, resp.Width, resp.Height)
	logIgnoredOverride("width", resp.Width)
	logIgnoredOverride("height", resp.Height)

	name := resp.OutputName()
	output := OutputPath(files[0], name)
	metrics.RecordOutput(size.Width, size.Height, plan.FPS)

	summary = Summary{
		Output: output,
		Size:   size,
		FPS:    plan.FPS,
		Files:  len(files),
		Probed: plan.Count,
	}

	if deps.Notifier != nil {
		defer func() {
			text := fmt.Sprintf("Finished encoding '%s'", name)
			if err != nil {
				text = fmt.Sprintf("Failed encoding '%s'", name)
			}
			if nerr := deps.Notifier.Notify(context.WithoutCancel(ctx), text); nerr != nil {
				logging.Warn("Notification failed: %v", nerr)
			}
		}()
	}

	if err := encode(ctx, cfg, deps, b.Filenames(), size, plan.FPS, output); err != nil {
		return summary, err
	}

	if deps.Poster != nil {
		dest := preview.PathFor(output)
		if perr := deps.Poster(ctx, output, dest); perr != nil {
			logging.Warn("Failed to write poster for %s: %v", output, perr)
		} else {
			summary.Poster = dest
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// encode owns the workspace: it is created here and removed before return.
func encode(ctx context.Context, cfg Config, deps Deps, inputs []string, size normalize.Geometry, fps *big.Rat, output string) error {
	ws, err := workspace.Create(cfg.WorkDir, cfg.Prefix)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logging.Warn("Failed to remove workspace %s: %v", ws.Dir(), cerr)
		}
	}()

	joined, err := deps.Combiner.Combine(ctx, ws, inputs, size, fps)
	if err != nil {
		return err
	}

	return workspace.Move(joined, output)
}

// OutputPath places name in the directory of the first input unless it is
// already absolute.
func OutputPath(first, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(filepath.Dir(first), name)
}

func logIgnoredOverride(field string, o normalize.Override) {
	if o.State == normalize.OverrideInvalid {
		logging.Debug("Ignoring invalid %s override %q", field, o.Raw)
	}
}
