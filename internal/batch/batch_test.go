package batch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"combine-videos/internal/normalize"
	"combine-videos/internal/probe"
)

type fakeProber struct {
	docs  map[string]string
	calls []string
}

func (f *fakeProber) Probe(_ context.Context, path string) (*probe.Result, error) {
	f.calls = append(f.calls, path)
	doc, ok := f.docs[path]
	if !ok {
		return nil, errors.New("exit status 1")
	}
	return probe.Decode([]byte(doc))
}

func videoDoc(w, h int, fps, rotate string) string {
	tags := ""
	if rotate != "" {
		tags = fmt.Sprintf(`,"tags":{"rotate":%q}`, rotate)
	}
	return fmt.Sprintf(`{"streams":[
		{"codec_type":"video","coded_width":%d,"coded_height":%d,"avg_frame_rate":%q%s},
		{"codec_type":"audio","avg_frame_rate":"0/0"}
	],"format":{"format_name":"mov"}}`, w, h, fps, tags)
}

func TestCollectEndToEndScenario(t *testing.T) {
	p := &fakeProber{docs: map[string]string{
		"a.mp4": videoDoc(1920, 1080, "30/1", ""),
		"b.mp4": videoDoc(1280, 720, "24/1", ""),
		"c.mp4": videoDoc(1920, 1080, "60/1", ""),
	}}

	b, err := Collect(context.Background(), p, []string{"a.mp4", "b.mp4", "c.mp4"})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	plan, err := b.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.Size != (normalize.Geometry{Width: 1920, Height: 1080}) {
		t.Errorf("Expected optimal size 1920x1080, got %v", plan.Size)
	}
	if plan.FPS.Cmp(big.NewRat(60, 1)) != 0 {
		t.Errorf("Expected optimal fps 60, got %s", plan.FPS.RatString())
	}
	if plan.Count != 3 {
		t.Errorf("Expected count 3, got %d", plan.Count)
	}
	if len(plan.Distinct) != 2 {
		t.Errorf("Expected 2 distinct sizes, got %v", plan.Distinct)
	}
}

func TestCollectProbesSequentiallyInOrder(t *testing.T) {
	p := &fakeProber{docs: map[string]string{}}
	files := []string{"3.mp4", "1.mp4", "2.mp4"}

	if _, err := Collect(context.Background(), p, files); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(p.calls) != fmt.Sprint(files) {
		t.Errorf("Expected probes in order %v, got %v", files, p.calls)
	}
}

func TestCollectKeepsFailedFilesOutOfStatistics(t *testing.T) {
	p := &fakeProber{docs: map[string]string{
		"good.mp4":    videoDoc(640, 480, "25", ""),
		"audio.m4a":   `{"streams":[{"codec_type":"audio"}]}`,
		"nofps.mp4":   videoDoc(640, 480, "0/0", ""),
		"nosize.mp4":  videoDoc(0, 0, "25", ""),
		"rotated.mp4": videoDoc(1920, 1080, "30000/1001", "90"),
	}}
	files := []string{"good.mp4", "broken.mp4", "audio.m4a", "nofps.mp4", "nosize.mp4", "rotated.mp4"}

	b, err := Collect(context.Background(), p, files)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(b.Files) != len(files) {
		t.Fatalf("Expected every file to stay in the batch, got %d of %d", len(b.Files), len(files))
	}
	if fmt.Sprint(b.Filenames()) != fmt.Sprint(files) {
		t.Errorf("Filenames() = %v, want %v", b.Filenames(), files)
	}

	wantReasons := map[string]string{
		"broken.mp4": DropProbeFailed,
		"audio.m4a":  DropNoVideo,
		"nofps.mp4":  DropInvalidFPS,
		"nosize.mp4": DropInvalidGeometry,
	}
	for _, f := range b.Files {
		reason, dropped := wantReasons[f.Filename]
		if f.Probed == dropped {
			t.Errorf("%s: Probed = %v, want %v", f.Filename, f.Probed, !dropped)
		}
		if f.DropReason != reason {
			t.Errorf("%s: DropReason = %q, want %q", f.Filename, f.DropReason, reason)
		}
		if !f.Probed && (f.Width != 0 || f.Height != 0 || f.FPS != nil) {
			t.Errorf("%s: dropped file has partial metadata %+v", f.Filename, f)
		}
	}

	if b.ProbedCount() != 2 {
		t.Errorf("Expected 2 probed files, got %d", b.ProbedCount())
	}

	sizes := b.Sizes()
	if len(sizes) != 2 || sizes[1] != (normalize.Geometry{Width: 1080, Height: 1920}) {
		t.Errorf("Expected rotated file to contribute 1080x1920, got %v", sizes)
	}
	rates := b.FrameRates()
	if len(rates) != 2 || rates[1].Cmp(big.NewRat(30000, 1001)) != 0 {
		t.Errorf("Expected rates [25 30000/1001], got %v", rates)
	}
}

func TestPlanNoProbedFiles(t *testing.T) {
	p := &fakeProber{docs: map[string]string{}}
	b, err := Collect(context.Background(), p, []string{"x.mp4", "y.mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Plan(); !errors.Is(err, ErrNoProbedFiles) {
		t.Errorf("Expected ErrNoProbedFiles, got %v", err)
	}

	empty := &Batch{}
	if _, err := empty.Plan(); !errors.Is(err, ErrNoProbedFiles) {
		t.Errorf("Expected ErrNoProbedFiles for empty batch, got %v", err)
	}
}

func TestCollectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProber{docs: map[string]string{"a.mp4": videoDoc(1, 1, "1", "")}}
	if _, err := Collect(ctx, p, []string{"a.mp4"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Errorf("Expected no probes after cancellation, got %v", p.calls)
	}
}
