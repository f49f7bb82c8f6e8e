package startup

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
	if !strings.Contains(info.String(), info.Version) {
		t.Errorf("String() = %q does not mention version", info.String())
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"unset uses default true", "", true, true},
		{"unset uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
		{"invalid uses default", "maybe", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := getEnvBool("TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue int
		want         int
	}{
		{"unset uses default", "", 20, 20},
		{"valid", "23", 20, 23},
		{"surrounding space", " 18 ", 20, 18},
		{"negative", "-1", 20, -1},
		{"invalid uses default", "high", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if got := getEnvInt("TEST_INT", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WORK_DIR", "CACHE_DIR", "PROBE_CACHE", "FFMPEG_PATH", "FFPROBE_PATH",
		"ZENITY_PATH", "PROMPT", "CRF", "METRICS_FILE", "POSTER", "NOTIFY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("WORK_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Prompt != PromptAuto {
		t.Errorf("Prompt = %q, want %q", cfg.Prompt, PromptAuto)
	}
	if cfg.CRF != DefaultCRF {
		t.Errorf("CRF = %d, want %d", cfg.CRF, DefaultCRF)
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" || cfg.ZenityPath != "zenity" {
		t.Errorf("tool paths = %q %q %q", cfg.FFmpegPath, cfg.FFprobePath, cfg.ZenityPath)
	}
	if !cfg.ProbeCache {
		t.Error("ProbeCache should default to true")
	}
	if !cfg.Notify {
		t.Error("Notify should default to true")
	}
	if cfg.Poster {
		t.Error("Poster should default to false")
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir should have a default")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	work := filepath.Join(t.TempDir(), "nested", "work")
	t.Setenv("WORK_DIR", work)
	t.Setenv("CACHE_DIR", "/var/cache/cv")
	t.Setenv("PROMPT", "Terminal")
	t.Setenv("CRF", "28")
	t.Setenv("POSTER", "true")
	t.Setenv("NOTIFY", "false")
	t.Setenv("PROBE_CACHE", "false")
	t.Setenv("METRICS_FILE", "/tmp/cv.prom")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.WorkDir != work {
		t.Errorf("WorkDir = %q, want %q", cfg.WorkDir, work)
	}
	if info, err := os.Stat(work); err != nil || !info.IsDir() {
		t.Errorf("work directory was not created: %v", err)
	}
	if cfg.CacheDir != "/var/cache/cv" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.Prompt != PromptTerminal {
		t.Errorf("Prompt = %q, want %q", cfg.Prompt, PromptTerminal)
	}
	if cfg.CRF != 28 {
		t.Errorf("CRF = %d, want 28", cfg.CRF)
	}
	if !cfg.Poster || cfg.Notify || cfg.ProbeCache {
		t.Errorf("flags Poster=%v Notify=%v ProbeCache=%v", cfg.Poster, cfg.Notify, cfg.ProbeCache)
	}
	if cfg.MetricsFile != "/tmp/cv.prom" {
		t.Errorf("MetricsFile = %q", cfg.MetricsFile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		wantCRF int
	}{
		{"valid", Config{Prompt: PromptNone, CRF: 18}, false, 18},
		{"crf too high resets", Config{Prompt: PromptNone, CRF: 60}, false, DefaultCRF},
		{"crf negative resets", Config{Prompt: PromptNone, CRF: -3}, false, DefaultCRF},
		{"unknown prompt", Config{Prompt: "kdialog", CRF: 20}, true, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.WorkDir = t.TempDir()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.CRF != tt.wantCRF {
				t.Errorf("CRF = %d, want %d", cfg.CRF, tt.wantCRF)
			}
		})
	}
}

func TestValidateWorkDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Config{Prompt: PromptNone, CRF: 20, WorkDir: file}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with a file as work dir expected error")
	}
}

func TestSetupCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	cfg := Config{CacheDir: dir, ProbeCache: false}
	if cfg.SetupCache() {
		t.Error("SetupCache() with ProbeCache=false should be disabled")
	}

	cfg.ProbeCache = true
	if !cfg.SetupCache() || !cfg.CacheEnabled {
		t.Error("SetupCache() should enable a writable cache dir")
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("write test file should be removed")
	}
}

func TestSetupOptionalDirNotWritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if setupOptionalDir(filepath.Join(file, "sub"), "test") {
		t.Error("setupOptionalDir() below a regular file should fail")
	}
}

func TestCheckToolMissing(t *testing.T) {
	err := checkTool("Nothing", "/nonexistent/definitely-not-a-tool", "-version")
	if err == nil {
		t.Error("checkTool() expected error for missing tool")
	}
}

func TestLogToolCheck(t *testing.T) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		t.Skip("ffprobe not available")
	}

	cfg := &Config{FFmpegPath: ffmpeg, FFprobePath: ffprobe, ZenityPath: "/nonexistent/zenity"}
	if err := LogToolCheck(cfg, false); err != nil {
		t.Errorf("LogToolCheck() error = %v", err)
	}
	if err := LogToolCheck(cfg, true); err == nil {
		t.Error("LogToolCheck() with missing zenity expected error")
	}
}

func TestEnabledString(t *testing.T) {
	if enabledString(true) != "ENABLED" || enabledString(false) != "DISABLED" {
		t.Error("enabledString() mismatch")
	}
}
