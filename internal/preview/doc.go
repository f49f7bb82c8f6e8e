// Package preview writes a JPEG poster frame for a finished video.
//
// A single frame is extracted with FFmpeg one second in, or from the very
// start for clips shorter than that, then fitted into a 320x320 box and
// saved next to the video with a .jpg extension.
package preview
