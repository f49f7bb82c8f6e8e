package probe

import (
	"math/big"
	"testing"
)

const sampleProbe = `{
	"streams": [
		{
			"index": 0,
			"codec_name": "h264",
			"codec_type": "video",
			"width": 1920,
			"height": 1080,
			"coded_width": 1920,
			"coded_height": 1088,
			"avg_frame_rate": "30000/1001",
			"tags": {"rotate": "90", "language": "und"}
		},
		{
			"index": 1,
			"codec_name": "aac",
			"codec_type": "audio",
			"avg_frame_rate": "0/0"
		}
	],
	"format": {
		"filename": "clip.mp4",
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "12.345",
		"size": "1048576",
		"bit_rate": "679477"
	}
}`

func TestDecode(t *testing.T) {
	res, err := Decode([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(res.Streams) != 2 {
		t.Fatalf("Expected 2 streams, got %d", len(res.Streams))
	}

	v := res.Streams[0]
	if !v.IsVideo() || v.IsAudio() {
		t.Errorf("Expected stream 0 to be video, got %q", v.CodecType)
	}
	if v.CodedWidth != 1920 || v.CodedHeight != 1088 {
		t.Errorf("Expected coded size 1920x1088, got %dx%d", v.CodedWidth, v.CodedHeight)
	}
	if got := v.AvgFrameRate.String(); got != "30000/1001" {
		t.Errorf("Expected avg_frame_rate 30000/1001, got %s", got)
	}
	if deg, ok := v.Tags.Rotate.Degrees(); !ok || deg != 90 {
		t.Errorf("Expected rotate 90, got %d (ok=%v)", deg, ok)
	}

	a := res.Streams[1]
	if !a.IsAudio() {
		t.Errorf("Expected stream 1 to be audio, got %q", a.CodecType)
	}
	if a.AvgFrameRate.Valid() {
		t.Error("Expected 0/0 frame rate to be invalid")
	}
	if _, ok := a.Tags.Rotate.Degrees(); ok {
		t.Error("Expected no rotate tag on audio stream")
	}

	if res.Format.Duration != "12.345" {
		t.Errorf("Expected format duration 12.345, got %s", res.Format.Duration)
	}
}

func TestDecodeNumericFields(t *testing.T) {
	doc := `{"streams":[{"codec_type":"video","coded_width":640,"coded_height":480,"avg_frame_rate":25,"tags":{"rotate":-90}}]}`
	res, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	s := res.Streams[0]
	if s.AvgFrameRate.String() != "25" {
		t.Errorf("Expected numeric frame rate 25, got %s", s.AvgFrameRate)
	}
	if deg, ok := s.Tags.Rotate.Degrees(); !ok || deg != -90 {
		t.Errorf("Expected numeric rotate -90, got %d (ok=%v)", deg, ok)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if _, err := Decode([]byte(`{"streams":[{"avg_frame_rate":{}}]}`)); err == nil {
		t.Error("Expected error for object frame rate")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
		want  *big.Rat
	}{
		{"30000/1001", true, big.NewRat(30000, 1001)},
		{"60000/2002", true, big.NewRat(30000, 1001)},
		{"30", true, big.NewRat(30, 1)},
		{"30/1", true, big.NewRat(30, 1)},
		{"29.97", true, big.NewRat(2997, 100)},
		{" 24 ", true, big.NewRat(24, 1)},
		{"0/0", false, nil},
		{"0/1", false, nil},
		{"-25", false, nil},
		{"", false, nil},
		{"fast", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fr := ParseFrameRate(tt.input)
			if fr.Valid() != tt.valid {
				t.Fatalf("ParseFrameRate(%q).Valid() = %v, want %v", tt.input, fr.Valid(), tt.valid)
			}
			if !tt.valid {
				if fr.Rat() != nil {
					t.Errorf("Expected nil Rat for invalid rate, got %v", fr.Rat())
				}
				return
			}
			if fr.Rat().Cmp(tt.want) != 0 {
				t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.input, fr.Rat(), tt.want)
			}
		})
	}
}

func TestFrameRateRatIsCopy(t *testing.T) {
	fr := ParseFrameRate("24")
	r := fr.Rat()
	r.SetInt64(1)
	if fr.String() != "24" {
		t.Errorf("Mutating Rat() result changed the FrameRate: %s", fr)
	}
}

func TestRotationDegrees(t *testing.T) {
	tests := []struct {
		name string
		rot  Rotation
		want int
		ok   bool
	}{
		{"absent", Rotation{}, 0, false},
		{"ninety", NewRotation("90"), 90, true},
		{"negative", NewRotation("-270"), -270, true},
		{"padded", NewRotation(" 180 "), 180, true},
		{"garbage", NewRotation("sideways"), 0, false},
		{"fractional", NewRotation("45.5"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rot.Degrees()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Degrees() = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
