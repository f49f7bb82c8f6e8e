package probe

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// Codec types reported by ffprobe in codec_type.
const (
	CodecVideo = "video"
	CodecAudio = "audio"
)

// Result is the decoded ffprobe document for one file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Format holds container level information. Only used for logging.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// Stream is one stream descriptor from the ffprobe "streams" list.
type Stream struct {
	Index        int       `json:"index"`
	CodecType    string    `json:"codec_type"`
	CodecName    string    `json:"codec_name"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CodedWidth   int       `json:"coded_width"`
	CodedHeight  int       `json:"coded_height"`
	AvgFrameRate FrameRate `json:"avg_frame_rate"`
	Tags         Tags      `json:"tags"`
}

// IsVideo reports whether the stream is a video stream.
func (s Stream) IsVideo() bool { return s.CodecType == CodecVideo }

// IsAudio reports whether the stream is an audio stream.
func (s Stream) IsAudio() bool { return s.CodecType == CodecAudio }

// Tags holds the stream tags the tool cares about.
type Tags struct {
	Rotate Rotation `json:"rotate"`
}

// Rotation is the tags.rotate value. ffprobe prints it as a string, some
// wrappers as a number; both are accepted.
type Rotation struct {
	raw     string
	present bool
}

// NewRotation builds a Rotation from its textual form.
func NewRotation(raw string) Rotation {
	return Rotation{raw: raw, present: true}
}

// Degrees returns the rotation in degrees. ok is false when the tag is
// missing or not an integer.
func (r Rotation) Degrees() (degrees int, ok bool) {
	if !r.present {
		return 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(r.raw))
	if err != nil {
		return 0, false
	}
	return d, true
}

// Raw returns the tag as it appeared in the document.
func (r Rotation) Raw() string { return r.raw }

// UnmarshalJSON accepts a JSON string or number.
func (r *Rotation) UnmarshalJSON(data []byte) error {
	raw, null, err := scalarText(data)
	if err != nil {
		return err
	}
	if null {
		*r = Rotation{}
		return nil
	}
	*r = NewRotation(raw)
	return nil
}

// MarshalJSON writes the tag back as a string.
func (r Rotation) MarshalJSON() ([]byte, error) {
	if !r.present {
		return []byte("null"), nil
	}
	return json.Marshal(r.raw)
}

// FrameRate is an exact rational frame rate. The zero value is invalid.
type FrameRate struct {
	rat *big.Rat
	raw string
}

// ParseFrameRate parses "num/den", an integer or a decimal string. ffprobe
// reports "0/0" for streams without a known rate; that and any zero or
// negative value yield an invalid FrameRate.
func ParseFrameRate(s string) FrameRate {
	s = strings.TrimSpace(s)
	fr := FrameRate{raw: s}
	if s == "" {
		return fr
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() <= 0 {
		return fr
	}
	fr.rat = r
	return fr
}

// Valid reports whether the rate is a positive rational.
func (f FrameRate) Valid() bool { return f.rat != nil }

// Rat returns a copy of the rate, or nil when invalid.
func (f FrameRate) Rat() *big.Rat {
	if f.rat == nil {
		return nil
	}
	return new(big.Rat).Set(f.rat)
}

// String returns the reduced form ("30000/1001", "60"), or the raw text
// when invalid.
func (f FrameRate) String() string {
	if f.rat == nil {
		return f.raw
	}
	return f.rat.RatString()
}

// UnmarshalJSON accepts a JSON string or number.
func (f *FrameRate) UnmarshalJSON(data []byte) error {
	raw, null, err := scalarText(data)
	if err != nil {
		return err
	}
	if null {
		*f = FrameRate{}
		return nil
	}
	*f = ParseFrameRate(raw)
	return nil
}

// MarshalJSON writes the rate as ffprobe would.
func (f FrameRate) MarshalJSON() ([]byte, error) {
	if f.rat == nil {
		return json.Marshal(f.raw)
	}
	return json.Marshal(f.rat.RatString())
}

// scalarText returns the text of a JSON string or number.
func scalarText(data []byte) (text string, null bool, err error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", true, nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		return s, false, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", false, err
	}
	return n.String(), false, nil
}
