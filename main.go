package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"combine-videos/internal/batch"
	"combine-videos/internal/cache"
	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"
	"combine-videos/internal/pipeline"
	"combine-videos/internal/preview"
	"combine-videos/internal/probe"
	"combine-videos/internal/prompt"
	"combine-videos/internal/startup"
	"combine-videos/internal/transcoder"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK        = 0
	exitCancelled = 1
	exitFailure   = 2
)

const filesEnv = "NAUTILUS_SCRIPT_SELECTED_FILE_PATHS"

var errNoInput = errors.New("no input files (pass them as arguments or via " + filesEnv + ")")

type options struct {
	output      string
	width       string
	height      string
	prompt      string
	workDir     string
	crf         int
	metricsFile string
	noCache     bool
	poster      bool
	verbose     bool
	version     bool
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	cmd := newRootCmd(&options{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	code := exitCode(err)

	switch code {
	case exitCancelled:
		logging.Info("Cancelled")
	case exitFailure:
		logging.Error("%v", err)
	}
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, prompt.ErrCancelled):
		return exitCancelled
	default:
		return exitFailure
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine-videos [flags] [file...]",
		Short: "Combine video files of mixed sizes and frame rates into one file.",
		Long: "Probe the inputs, pick a common size and frame rate, let the user confirm or\n" +
			"override them, transcode every input to match and join the result.\n\n" +
			"With no file arguments the list is read from " + filesEnv + ".",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintln(cmd.OutOrStdout(), startup.GetBuildInfo())
				return nil
			}
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file name, relative to the first input's directory")
	f.StringVar(&opts.width, "width", "", "override the target width")
	f.StringVar(&opts.height, "height", "", "override the target height")
	f.StringVar(&opts.prompt, "prompt", startup.PromptAuto, "how to ask for settings: auto, zenity, terminal or none")
	f.StringVar(&opts.workDir, "work-dir", "", "base directory for the temporary workspace")
	f.IntVar(&opts.crf, "crf", startup.DefaultCRF, "x264 constant rate factor (0-51)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	f.BoolVar(&opts.noCache, "no-cache", false, "do not use the probe cache")
	f.BoolVar(&opts.poster, "poster", false, "write a JPEG poster next to the output")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&opts.version, "version", false, "print version information")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	if opts.verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	cfg, err := startup.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	files := args
	if len(files) == 0 {
		files = batch.ParseFileList(os.Getenv(filesEnv))
	}
	if len(batch.SortFiles(files)) == 0 {
		return errNoInput
	}

	metrics.InitializeMetrics()
	if cfg.MetricsFile != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
				logging.Warn("Failed to write metrics file: %v", err)
			}
		}()
	}

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	trans := transcoder.New(cfg.FFmpegPath, cfg.CRF)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Warn("Received %s, stopping", sig)
			cancel()
			trans.Cleanup()
		case <-ctx.Done():
		}
	}()

	mode := resolvePromptMode(cfg.Prompt, displayAvailable(), toolAvailable(cfg.ZenityPath), prompt.IsInteractive(os.Stdin))
	logging.Debug("Prompt mode: %s (requested %s)", mode, cfg.Prompt)

	cfg.SetupCache()
	if err := startup.LogToolCheck(cfg, mode == startup.PromptZenity); err != nil {
		return err
	}

	ffprobe := probe.NewFFprobe(cfg.FFprobePath)
	var prober probe.Prober = ffprobe
	if cfg.CacheEnabled {
		db, err := cache.Open(ctx, cfg.CacheDir)
		if err != nil {
			logging.Warn("Probe cache unavailable: %v", err)
		} else {
			defer func() {
				if err := db.SetLastRun(context.WithoutCancel(ctx), time.Now()); err != nil {
					logging.Warn("Failed to record last run: %v", err)
				}
				if err := db.Close(); err != nil {
					logging.Warn("failed to close probe cache: %v", err)
				}
			}()
			prober = probe.NewCached(ffprobe, db)
		}
	}

	front := newFrontEnd(mode, cfg, opts)
	deps := pipeline.Deps{
		Prober:   prober,
		Prompter: front,
		Combiner: trans,
	}
	if cfg.Notify {
		deps.Notifier = front
	}
	if cfg.Poster {
		deps.Poster = func(ctx context.Context, video, dest string) error {
			return preview.Generate(ctx, cfg.FFmpegPath, video, dest)
		}
	}

	startup.LogRunStarted(len(files))
	summary, err := pipeline.Run(ctx, pipeline.Config{Files: files, WorkDir: cfg.WorkDir}, deps)
	if err != nil {
		return err
	}
	startup.LogRunFinished(summary.Output, summary.Duration)
	return nil
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *startup.Config, opts *options) error {
	f := cmd.Flags()
	if f.Changed("prompt") {
		cfg.Prompt = opts.prompt
	}
	if f.Changed("work-dir") {
		cfg.WorkDir = opts.workDir
	}
	if f.Changed("crf") {
		cfg.CRF = opts.crf
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = opts.metricsFile
	}
	if opts.noCache {
		cfg.ProbeCache = false
	}
	if opts.poster {
		cfg.Poster = true
	}
	return cfg.Validate()
}

// frontEnd both asks and notifies.
type frontEnd interface {
	prompt.Prompter
	prompt.Notifier
}

func newFrontEnd(mode string, cfg *startup.Config, opts *options) frontEnd {
	switch mode {
	case startup.PromptZenity:
		return prompt.NewZenity(cfg.ZenityPath)
	case startup.PromptTerminal:
		return prompt.NewTerminal(os.Stdin, os.Stderr)
	default:
		return prompt.NewStatic(opts.output, opts.width, opts.height)
	}
}

// resolvePromptMode turns "auto" into a concrete mode: zenity on a desktop
// session, the terminal when stdin is one, otherwise flags only.
func resolvePromptMode(mode string, display, zenity, interactive bool) string {
	if mode != startup.PromptAuto {
		return mode
	}
	switch {
	case display && zenity:
		return startup.PromptZenity
	case interactive:
		return startup.PromptTerminal
	default:
		return startup.PromptNone
	}
}

func displayAvailable() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func toolAvailable(path string) bool {
	_, err := exec.LookPath(path)
	return err == nil
}
