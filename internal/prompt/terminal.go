package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"combine-videos/internal/normalize"

	"golang.org/x/term"
)

// Terminal asks the questions on a line based terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a terminal front end reading from in and writing to
// out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Ask implements Prompter. End of input before an answer cancels.
func (t *Terminal) Ask(ctx context.Context, req Request) (Response, error) {
	fmt.Fprintf(t.out, "Combine %s\n", req.Summary())
	if len(req.Distinct) > 0 {
		fmt.Fprintln(t.out, "Resolutions found:")
		for _, g := range req.Distinct {
			fmt.Fprintf(t.out, "  %5d x %-5d\n", g.Width, g.Height)
		}
	}

	answers := make([]string, 3)
	questions := []string{
		"Output: ",
		fmt.Sprintf("Override Width (%d): ", req.Size.Width),
		fmt.Sprintf("Override Height (%d): ", req.Size.Height),
	}
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return Response{}, err
		}
		fmt.Fprint(t.out, q)
		line, err := t.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(t.out)
				return Response{}, ErrCancelled
			}
			return Response{}, fmt.Errorf("failed to read answer: %w", err)
		}
		answers[i] = strings.TrimRight(line, "\r\n")
	}

	return Response{
		Output: strings.TrimSpace(answers[0]),
		Width:  normalize.ParseOverride(answers[1]),
		Height: normalize.ParseOverride(answers[2]),
	}, nil
}

// Notify implements Notifier by printing the text.
func (t *Terminal) Notify(_ context.Context, text string) error {
	_, err := fmt.Fprintln(t.out, text)
	return err
}
