package prompt

import (
	"context"

	"combine-videos/internal/logging"
	"combine-videos/internal/normalize"
)

// Static answers every request with the same values. It is used when no
// interactive front end is available.
type Static struct {
	Response Response
}

// NewStatic builds a Static prompter from raw flag values.
func NewStatic(output, width, height string) *Static {
	return &Static{Response: Response{
		Output: output,
		Width:  normalize.ParseOverride(width),
		Height: normalize.ParseOverride(height),
	}}
}

// Ask implements Prompter.
func (s *Static) Ask(_ context.Context, req Request) (Response, error) {
	logging.Info("Combining %s", req.Summary())
	return s.Response, nil
}

// Notify implements Notifier through the log.
func (s *Static) Notify(_ context.Context, text string) error {
	logging.Info("%s", text)
	return nil
}
