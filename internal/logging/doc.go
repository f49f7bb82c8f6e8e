// Package logging provides a simple leveled logging interface for
// combine-videos.
//
// It supports the following log levels:
//   - DEBUG: ffprobe output, full command lines, cache decisions
//   - INFO: progress through the pipeline
//   - WARN: files dropped from the statistics, best-effort steps that failed
//   - ERROR: failures that abort the run
//   - FATAL: errors that terminate the process
//
// The log level is configured via the DEBUG or LOG_LEVEL environment
// variables and may be raised from the command line with SetLevel.
package logging
