// Package transcoder drives FFmpeg to bring every input to the target
// geometry and frame rate and join the results.
//
// Each input is scaled to fit the target frame with its sample aspect ratio
// respected, padded (letterboxed) to the exact size, re-encoded to
// H.264/AAC at the target rate and written into the workspace as
// transcodedNNNN.mp4. The segments are then joined with the concat demuxer
// without re-encoding.
//
// FFmpeg must be installed and available in the system PATH, or its
// location passed explicitly to New.
package transcoder
