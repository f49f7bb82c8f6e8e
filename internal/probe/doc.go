// Package probe extracts stream metadata from media files with ffprobe.
//
// It decodes the JSON printed by
//
//	ffprobe -v quiet -print_format json -show_format -show_streams <file>
//
// into Stream descriptors. Frame rates are kept as exact rationals so that
// comparisons between 30000/1001 and 29.97 style values never go through
// floating point.
//
// ffprobe must be installed and available in the system PATH, or its
// location passed explicitly to NewFFprobe.
package probe
