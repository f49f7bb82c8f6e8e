package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"combine-videos/internal/logging"
	"combine-videos/internal/workspace"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String renders the build info for --version.
func (b BuildInfo) String() string {
	return fmt.Sprintf("combine-videos %s (commit %s, built %s, %s %s/%s)",
		b.Version, b.Commit, b.BuildTime, b.GoVersion, b.OS, b.Arch)
}

// Prompt modes.
const (
	PromptAuto     = "auto"
	PromptZenity   = "zenity"
	PromptTerminal = "terminal"
	PromptNone     = "none"
)

// DefaultCRF is the x264 quality used when CRF is unset or out of range.
const DefaultCRF = 20

// Config holds all application configuration
type Config struct {
	WorkDir     string
	CacheDir    string
	FFmpegPath  string
	FFprobePath string
	ZenityPath  string
	Prompt      string
	CRF         int
	MetricsFile string
	ProbeCache  bool
	Poster      bool
	Notify      bool

	// Feature flag based on cache directory availability
	CacheEnabled bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	if logging.IsDebugEnabled() {
		printBanner()
		logSystemInfo()
	}

	logging.Debug("------------------------------------------------------------")
	logging.Debug("CONFIGURATION")
	logging.Debug("------------------------------------------------------------")

	workDir := getEnv("WORK_DIR", workspace.DefaultBase())
	cacheDir := getEnv("CACHE_DIR", DefaultCacheDir())
	probeCache := getEnvBool("PROBE_CACHE", true)
	ffmpegPath := getEnv("FFMPEG_PATH", "ffmpeg")
	ffprobePath := getEnv("FFPROBE_PATH", "ffprobe")
	zenityPath := getEnv("ZENITY_PATH", "zenity")
	prompt := strings.ToLower(getEnv("PROMPT", PromptAuto))
	crf := getEnvInt("CRF", DefaultCRF)
	metricsFile := getEnv("METRICS_FILE", "")
	poster := getEnvBool("POSTER", false)
	notify := getEnvBool("NOTIFY", true)

	logging.Debug("  WORK_DIR:      %s", workDir)
	logging.Debug("  CACHE_DIR:     %s", cacheDir)
	logging.Debug("  PROBE_CACHE:   %v", probeCache)
	logging.Debug("  FFMPEG_PATH:   %s", ffmpegPath)
	logging.Debug("  FFPROBE_PATH:  %s", ffprobePath)
	logging.Debug("  ZENITY_PATH:   %s", zenityPath)
	logging.Debug("  PROMPT:        %s", prompt)
	logging.Debug("  CRF:           %d", crf)
	logging.Debug("  METRICS_FILE:  %s", metricsFile)
	logging.Debug("  POSTER:        %v", poster)
	logging.Debug("  NOTIFY:        %v", notify)
	logging.Debug("  LOG_LEVEL:     %s", logging.GetLevel())

	config := &Config{
		WorkDir:     workDir,
		CacheDir:    cacheDir,
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		ZenityPath:  zenityPath,
		Prompt:      prompt,
		CRF:         crf,
		MetricsFile: metricsFile,
		ProbeCache:  probeCache,
		Poster:      poster,
		Notify:      notify,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate normalizes out-of-range values and rejects unusable ones. It is
// called again after command-line flags are applied.
func (c *Config) Validate() error {
	switch c.Prompt {
	case PromptAuto, PromptZenity, PromptTerminal, PromptNone:
	default:
		return fmt.Errorf("invalid prompt mode %q (want auto, zenity, terminal or none)", c.Prompt)
	}

	if c.CRF < 0 || c.CRF > 51 {
		logging.Warn("CRF %d out of range 0-51, using default: %d", c.CRF, DefaultCRF)
		c.CRF = DefaultCRF
	}

	workDir, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return fmt.Errorf("failed to resolve work directory path: %w", err)
	}
	c.WorkDir = workDir

	if err := ensureDirectory(c.WorkDir, "work"); err != nil {
		return fmt.Errorf("work directory error: %w", err)
	}
	return nil
}

// SetupCache prepares the probe cache directory and records whether the
// cache can be used.
func (c *Config) SetupCache() bool {
	c.CacheEnabled = false
	if !c.ProbeCache {
		logging.Debug("  Probe cache disabled")
		return false
	}
	c.CacheEnabled = setupOptionalDir(c.CacheDir, "probe cache")
	return c.CacheEnabled
}

// DefaultCacheDir is the probe cache location used when CACHE_DIR is unset.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "combine-videos")
	}
	return filepath.Join(os.TempDir(), "combine-videos-cache")
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	if err := testWriteAccess(path); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogToolCheck checks the external programs a run depends on. Missing
// optional tools are logged, a missing required one is returned as an error.
func LogToolCheck(cfg *Config, needZenity bool) error {
	logging.Debug("")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("EXTERNAL TOOLS")
	logging.Debug("------------------------------------------------------------")

	for _, tool := range []struct{ name, path string }{
		{"FFmpeg", cfg.FFmpegPath},
		{"FFprobe", cfg.FFprobePath},
	} {
		if err := checkTool(tool.name, tool.path, "-version"); err != nil {
			return err
		}
		logging.Debug("  [OK] %s is available", tool.name)
	}

	if needZenity {
		if err := checkTool("Zenity", cfg.ZenityPath, "--version"); err != nil {
			return err
		}
		logging.Debug("  [OK] Zenity is available")
	}

	logging.Debug("")
	logging.Debug("  Feature availability:")
	logging.Debug("    Probe cache: %s", enabledString(cfg.CacheEnabled))
	logging.Debug("    Poster:      %s", enabledString(cfg.Poster))
	logging.Debug("    Notify:      %s", enabledString(cfg.Notify))
	return nil
}

// LogRunStarted logs the beginning of a run.
func LogRunStarted(files int) {
	logging.Info("Combining %d files", files)
}

// LogRunFinished logs the end of a run at every level.
func LogRunFinished(output string, duration time.Duration) {
	logging.Printf("[OK] Wrote %s in %v", output, duration.Round(time.Millisecond))
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
  combine-videos
------------------------------------------------------------`
	fmt.Fprintln(os.Stderr, banner)
	logging.Debug("  Version:    %s", Version)
	logging.Debug("  Commit:     %s", Commit)
	logging.Debug("  Build Time: %s", BuildTime)
	logging.Debug("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Debug("")
}

func logSystemInfo() {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("SYSTEM INFORMATION")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  Go version:      %s", runtime.Version())
	logging.Debug("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Debug("  CPUs available:  %d", runtime.NumCPU())

	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
	if hostname, err := os.Hostname(); err == nil {
		logging.Debug("  Hostname:        %s", hostname)
	}
	logging.Debug("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func checkTool(name, path string, versionArgs ...string) error {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return fmt.Errorf("%s not found (%s): %w", name, path, err)
	}
	logging.Debug("  %s path: %s", name, resolved)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, resolved, versionArgs...).Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(lines[0]))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
