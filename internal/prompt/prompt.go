package prompt

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"combine-videos/internal/normalize"
)

// ErrCancelled is returned when the user aborts the prompt.
var ErrCancelled = errors.New("user cancelled")

// Request is what the user is shown.
type Request struct {
	Count    int
	Size     normalize.Geometry
	FPS      *big.Rat
	Distinct []normalize.Geometry
}

// Summary is the one-line description of the request.
func (r Request) Summary() string {
	return fmt.Sprintf("%d files at size %s and fps %s", r.Count, r.Size, normalize.DisplayFPS(r.FPS))
}

// Response is what the user answered. Output may be blank.
type Response struct {
	Output string
	Width  normalize.Override
	Height normalize.Override
}

// Prompter asks the user for a Response.
type Prompter interface {
	Ask(ctx context.Context, req Request) (Response, error)
}

// Notifier tells the user the run finished.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// ParseForm splits a "output|width|height|..." record as printed by
// zenity --forms. Extra fields (the resolutions list selection) are ignored.
func ParseForm(record string) (Response, error) {
	fields := strings.Split(strings.TrimRight(record, "\r\n"), "|")
	if len(fields) < 3 {
		return Response{}, fmt.Errorf("malformed form response %q: want at least 3 fields, got %d", record, len(fields))
	}
	return Response{
		Output: strings.TrimSpace(fields[0]),
		Width:  normalize.ParseOverride(fields[1]),
		Height: normalize.ParseOverride(fields[2]),
	}, nil
}

// DefaultOutputName returns the name used when the user leaves the output
// field blank.
func DefaultOutputName() string {
	return fmt.Sprintf("unnamed_encoded_%d.mkv", rand.Intn(100001))
}

// OutputName returns the trimmed answer or a generated default.
func (r Response) OutputName() string {
	if name := strings.TrimSpace(r.Output); name != "" {
		return name
	}
	return DefaultOutputName()
}
