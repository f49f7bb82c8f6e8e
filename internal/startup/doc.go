// Package startup handles configuration loading, external tool checks and
// run logging.
//
// # Configuration
//
// Configuration is loaded from environment variables via [LoadConfig];
// command-line flags applied afterwards take precedence, after which
// [Config.Validate] is called again. The following environment variables
// are supported:
//
//   - WORK_DIR: Base directory for the temporary workspace (default: /dev/shm when present, else the system temp dir)
//   - CACHE_DIR: Directory holding the probe cache database (default: the user cache dir)
//   - PROBE_CACHE: Cache ffprobe output between runs (default: true)
//   - FFMPEG_PATH, FFPROBE_PATH, ZENITY_PATH: Tool locations (default: looked up in PATH)
//   - PROMPT: auto, zenity, terminal or none (default: auto)
//   - CRF: x264 constant rate factor, 0-51 (default: 20)
//   - METRICS_FILE: Write Prometheus metrics in textfile format to this path after the run
//   - POSTER: Write a JPEG poster next to the output (default: false)
//   - NOTIFY: Send a desktop notification when done (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X combine-videos/internal/startup.Version=1.2.0"
package startup
