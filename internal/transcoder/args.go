package transcoder

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"combine-videos/internal/normalize"
)

// Names of the files written into the workspace.
const (
	ConcatListName = "files.txt"
	OutputName     = "outfile.mkv"
)

// DefaultCRF is the x264 constant rate factor used when none is configured.
const DefaultCRF = 20

// FilterGraph returns the -vf expression that scales a stream to fit g,
// accounting for non-square pixels, and pads it to exactly g with the image
// centered.
func FilterGraph(g normalize.Geometry) string {
	return fmt.Sprintf(
		`scale=(iw*sar)*min(%[1]d/(iw*sar)\,%[2]d/ih):ih*min(%[1]d/(iw*sar)\,%[2]d/ih),`+
			`pad=%[1]d:%[2]d:(%[1]d-iw*min(%[1]d/iw\,%[2]d/ih))/2:(%[2]d-ih*min(%[1]d/iw\,%[2]d/ih))/2`,
		g.Width, g.Height)
}

// SegmentName returns the workspace file name of the i-th transcoded input.
func SegmentName(i int) string {
	return fmt.Sprintf("transcoded%04d.mp4", i)
}

// TranscodeArgs returns the ffmpeg arguments that normalize one input.
func TranscodeArgs(input, output string, g normalize.Geometry, fps *big.Rat, crf int) []string {
	return []string{
		"-nostdin", "-y",
		"-i", input,
		"-vcodec", "libx264",
		"-crf", strconv.Itoa(crf),
		"-vf", FilterGraph(g),
		"-ac", "2",
		"-c:a", "aac",
		"-strict", "-2",
		"-b:a", "128k",
		"-ar", "44100",
		"-r", normalize.FormatFPS(fps),
		output,
	}
}

// ConcatArgs returns the ffmpeg arguments that join the segments listed in
// list without re-encoding.
func ConcatArgs(list, output string, fps *big.Rat) []string {
	return []string{
		"-nostdin", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		"-r", normalize.FormatFPS(fps),
		output,
	}
}

// ConcatList renders a concat demuxer script for paths.
func ConcatList(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// CommandLine formats a command for logs.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"\\|*()") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
