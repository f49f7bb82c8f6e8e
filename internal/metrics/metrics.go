package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe metrics
var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_videos_probes_total",
			Help: "Total number of file probes by outcome",
		},
		[]string{"status"}, // "success", "error", "no_video", "invalid"
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "combine_videos_probe_duration_seconds",
			Help:    "ffprobe execution time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ProbeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "combine_videos_probe_cache_hits_total",
			Help: "Total number of probes served from the probe cache",
		},
	)

	ProbeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "combine_videos_probe_cache_misses_total",
			Help: "Total number of probes that had to run ffprobe",
		},
	)

	FilesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_videos_files_dropped_total",
			Help: "Files excluded from size and frame rate statistics",
		},
		[]string{"reason"},
	)
)

// Filesystem metrics
var (
	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_videos_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors seen on input files",
		},
		[]string{"operation"},
	)

	FilesystemRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_videos_filesystem_retries_total",
			Help: "Retried filesystem operations by final outcome",
		},
		[]string{"operation", "result"}, // result: "success", "failure"
	)
)

// Transcode metrics
var (
	TranscodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_videos_transcodes_total",
			Help: "Total number of per-file transcodes by outcome",
		},
		[]string{"status"},
	)

	FFmpegDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "combine_videos_ffmpeg_duration_seconds",
			Help:    "ffmpeg execution time in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"stage"}, // "transcode", "concat", "poster"
	)
)

// Run metrics
var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_videos_runs_total",
			Help: "Total number of runs by result",
		},
		[]string{"result"},
	)

	OutputWidth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "combine_videos_output_width",
			Help: "Width of the last combined output",
		},
	)

	OutputHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "combine_videos_output_height",
			Help: "Height of the last combined output",
		},
	)

	OutputFPS = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "combine_videos_output_fps",
			Help: "Frame rate of the last combined output",
		},
	)
)

// Run results
const (
	ResultCompleted = "completed"
	ResultCancelled = "cancelled"
	ResultFailed    = "failed"
)

// RecordOutput sets the output gauges. The float conversion is for display
// only.
func RecordOutput(width, height int, fps *big.Rat) {
	OutputWidth.Set(float64(width))
	OutputHeight.Set(float64(height))
	if fps != nil {
		f, _ := fps.Float64()
		OutputFPS.Set(f)
	}
}

// InitializeMetrics pre-populates all expected label combinations so that
// every series is present in the exported file even when zero.
func InitializeMetrics() {
	for _, s := range []string{"success", "error", "no_video", "invalid"} {
		ProbesTotal.WithLabelValues(s)
	}
	for _, r := range []string{"probe_failed", "no_video", "invalid_geometry", "invalid_fps"} {
		FilesDropped.WithLabelValues(r)
	}
	for _, s := range []string{"success", "error"} {
		TranscodesTotal.WithLabelValues(s)
	}
	for _, st := range []string{"transcode", "concat", "poster"} {
		FFmpegDuration.WithLabelValues(st)
	}
	for _, r := range []string{"success", "failure"} {
		FilesystemRetries.WithLabelValues("stat", r)
	}
	FilesystemStaleErrors.WithLabelValues("stat")
	for _, r := range []string{ResultCompleted, ResultCancelled, ResultFailed} {
		RunsTotal.WithLabelValues(r)
	}
}

// WriteTextfile writes the default registry to path in the Prometheus text
// format. The write is atomic.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
