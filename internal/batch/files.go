package batch

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// videoExts lists extensions that look like video files. Used for warnings
// only; nothing is filtered on it.
var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true, ".ts": true,
	".mts": true, ".m2ts": true, ".ogv": true,
}

// LooksLikeVideo reports whether path has a common video extension.
func LooksLikeVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// ParseFileList splits a newline separated list of paths, as file managers
// pass selections to scripts.
func ParseFileList(s string) []string {
	return strings.Split(s, "\n")
}

// SortFiles trims every entry, drops blank ones and returns the rest in
// natural order ("clip2" before "clip10").
func SortFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return natural.Less(out[i], out[j])
	})
	return out
}
