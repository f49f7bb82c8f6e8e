package metrics

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAndRead(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combine.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	return string(data)
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()
	out := writeAndRead(t)

	for _, series := range []string{
		`combine_videos_probes_total{status="no_video"}`,
		`combine_videos_files_dropped_total{reason="invalid_fps"}`,
		`combine_videos_runs_total{result="cancelled"}`,
		`combine_videos_transcodes_total{status="error"}`,
	} {
		if !strings.Contains(out, series) {
			t.Errorf("Expected series %s in output", series)
		}
	}
}

func TestRecordOutput(t *testing.T) {
	RecordOutput(1920, 1080, big.NewRat(60, 1))
	out := writeAndRead(t)

	for _, line := range []string{
		"combine_videos_output_width 1920",
		"combine_videos_output_height 1080",
		"combine_videos_output_fps 60",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Expected %q in output", line)
		}
	}
}

func TestRecordOutputNilFPS(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("RecordOutput panicked with nil fps: %v", r)
		}
	}()
	RecordOutput(640, 480, nil)
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	if err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}
