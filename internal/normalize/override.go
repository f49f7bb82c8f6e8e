package normalize

import (
	"strconv"
	"strings"
)

// OverrideState says what the user typed into an override field.
type OverrideState int

const (
	// OverrideOmitted means the field was left blank.
	OverrideOmitted OverrideState = iota
	// OverrideValid means the field holds a positive integer.
	OverrideValid
	// OverrideInvalid means the field holds something else.
	OverrideInvalid
)

func (s OverrideState) String() string {
	switch s {
	case OverrideOmitted:
		return "omitted"
	case OverrideValid:
		return "valid"
	case OverrideInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Override is a user supplied replacement for one dimension.
type Override struct {
	State OverrideState
	Value int
	Raw   string
}

// ParseOverride interprets an override field. Blank is omitted; a positive
// integer (surrounding whitespace allowed) is valid; anything else, zero and
// negatives included, is invalid.
func ParseOverride(s string) Override {
	o := Override{Raw: s}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return o
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		o.State = OverrideInvalid
		return o
	}
	o.State = OverrideValid
	o.Value = n
	return o
}

// Or returns the override value when valid and def otherwise. Invalid input
// falls back silently.
func (o Override) Or(def int) int {
	if o.State == OverrideValid {
		return o.Value
	}
	return def
}

// ResolveGeometry applies width and height overrides to g.
func ResolveGeometry(g Geometry, width, height Override) Geometry {
	return Geometry{
		Width:  width.Or(g.Width),
		Height: height.Or(g.Height),
	}
}
