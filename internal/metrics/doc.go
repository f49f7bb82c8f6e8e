// Package metrics declares the Prometheus metrics recorded during a
// combine-videos run.
//
// The tool is a short-lived process, so nothing is served over HTTP.
// Instead the default registry can be written once at the end of a run to a
// file in the node-exporter textfile collector format:
//
//	combine-videos --metrics-file /var/lib/node_exporter/combine_videos.prom ...
//
// Metrics:
//   - combine_videos_probes_total{status}: ffprobe calls by outcome
//   - combine_videos_probe_duration_seconds: ffprobe wall time
//   - combine_videos_probe_cache_hits_total / _misses_total
//   - combine_videos_files_dropped_total{reason}: files left out of the
//     size and frame-rate statistics
//   - combine_videos_transcodes_total{status}: per-file ffmpeg runs
//   - combine_videos_ffmpeg_duration_seconds{stage}: transcode and concat time
//   - combine_videos_runs_total{result}: completed, cancelled, failed
//   - combine_videos_output_width / _height / _fps: the chosen parameters
package metrics
