package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"combine-videos/internal/cache"
	"combine-videos/internal/startup"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
)

func main() {
	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "probecache",
		Short:         "Inspect and maintain the combine-videos probe cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, db *cache.DB) error {
				return showStatus(ctx, db, cmd.OutOrStdout())
			})
		},
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached probe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, db *cache.DB) error {
				if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
					if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Remove all cached probes?") {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return nil
					}
				}
				return clearCache(ctx, db, cmd.OutOrStdout())
			})
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	root.AddCommand(clearCmd)

	root.AddCommand(&cobra.Command{
		Use:   "prune <age>",
		Short: "Remove cached probes older than age (e.g. 72h, 30d)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := parseAge(args[0])
			if err != nil {
				return err
			}
			return withDB(cmd, func(ctx context.Context, db *cache.DB) error {
				return pruneCache(ctx, db, age, cmd.OutOrStdout())
			})
		},
	})

	return root
}

func cacheDir() string {
	if dir := os.Getenv("CACHE_DIR"); dir != "" {
		return dir
	}
	return startup.DefaultCacheDir()
}

func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *cache.DB) error) error {
	// Add timeout to context for database operations
	ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
	defer cancel()

	dir := cacheDir()
	db, err := cache.Open(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to open probe cache in %s (set CACHE_DIR): %w", dir, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	return fn(ctx, db)
}

func showStatus(ctx context.Context, db *cache.DB, w io.Writer) error {
	stats, err := db.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache statistics: %w", err)
	}

	fmt.Fprintf(w, "Database: %s\n", db.Path())
	fmt.Fprintf(w, "Entries:  %d\n", stats.Entries)
	fmt.Fprintf(w, "Size:     %s\n", formatBytes(stats.SizeBytes))
	if stats.Entries > 0 {
		fmt.Fprintf(w, "Oldest:   %s\n", stats.Oldest.Format(time.RFC3339))
		fmt.Fprintf(w, "Newest:   %s\n", stats.Newest.Format(time.RFC3339))
	}

	last, err := db.LastRun(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last run: %w", err)
	}
	if last.IsZero() {
		fmt.Fprintln(w, "Last run: never")
	} else {
		fmt.Fprintf(w, "Last run: %s\n", last.Local().Format(time.RFC3339))
	}
	return nil
}

func clearCache(ctx context.Context, db *cache.DB, w io.Writer) error {
	n, err := db.Clear(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintf(w, "Removed %d cached probes.\n", n)
	return nil
}

func pruneCache(ctx context.Context, db *cache.DB, age time.Duration, w io.Writer) error {
	n, err := db.Prune(ctx, time.Now().Add(-age))
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	fmt.Fprintf(w, "Removed %d cached probes older than %s.\n", n, age)
	return nil
}

// parseAge accepts a Go duration or a whole number of days ("30d").
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return d, nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
