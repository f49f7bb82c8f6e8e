package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"combine-videos/internal/logging"
)

// zenity exits with 1 when the dialog is cancelled or closed.
const zenityCancelled = 1

// RunFunc runs a command and returns its stdout.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Zenity shows a GTK form dialog.
type Zenity struct {
	path string
	run  RunFunc
}

// NewZenity creates a zenity front end. An empty path means "zenity" looked
// up in PATH.
func NewZenity(path string) *Zenity {
	if path == "" {
		path = "zenity"
	}
	return &Zenity{path: path, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		logging.Debug("%s stderr: %s", name, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// FormArgs returns the zenity arguments for req.
func FormArgs(req Request) []string {
	values := make([]string, 0, 2*len(req.Distinct))
	for _, g := range req.Distinct {
		values = append(values, strconv.Itoa(g.Width), strconv.Itoa(g.Height))
	}

	return []string{
		"--forms",
		"--title=Combine " + req.Summary() + " to",
		"--text=" + req.Summary(),
		"--add-entry=Output:",
		fmt.Sprintf("--add-entry=Override Width (%d):", req.Size.Width),
		fmt.Sprintf("--add-entry=Override Height (%d):", req.Size.Height),
		"--add-list=Resolutions Found:",
		"--column-values=Width|Height",
		"--show-header",
		"--list-values=" + strings.Join(values, "|"),
	}
}

// Ask implements Prompter.
func (z *Zenity) Ask(ctx context.Context, req Request) (Response, error) {
	out, err := z.run(ctx, z.path, FormArgs(req)...)
	if err != nil {
		if isExitCode(err, zenityCancelled) {
			return Response{}, ErrCancelled
		}
		return Response{}, fmt.Errorf("zenity failed: %w", err)
	}
	return ParseForm(string(out))
}

// Notify implements Notifier with a desktop notification.
func (z *Zenity) Notify(ctx context.Context, text string) error {
	if _, err := z.run(ctx, z.path, "--notification", "--text="+text); err != nil {
		return fmt.Errorf("zenity notification failed: %w", err)
	}
	return nil
}

func isExitCode(err error, code int) bool {
	var exitErr interface{ ExitCode() int }
	return errors.As(err, &exitErr) && exitErr.ExitCode() == code
}
