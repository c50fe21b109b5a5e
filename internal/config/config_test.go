package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/panegrid/internal/packer"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.Cols != defaultCols {
		t.Fatalf("Cols = %d, want %d", cfg.Cols, defaultCols)
	}
	if cfg.Env != defaultEnv {
		t.Fatalf("Env = %q, want %q", cfg.Env, defaultEnv)
	}
	if cfg.Debounce != 50*time.Millisecond {
		t.Fatalf("Debounce = %v, want 50ms", cfg.Debounce)
	}

	wantStateDir, err := expandPath(defaultStateDir)
	if err != nil {
		t.Fatalf("expandPath(defaultStateDir) returned error: %v", err)
	}
	if cfg.StateDir != wantStateDir {
		t.Fatalf("StateDir = %q, want %q", cfg.StateDir, wantStateDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantStateDir, "layout.db") {
		t.Fatalf("DatabasePath = %q", cfg.DatabasePath())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_bind = "  10.0.0.5:9999  "
env = " experiments "
cols = 12
debounce_ms = 120
poll_ms = 250
state_dir = "  ~/.panegrid  "

[grid]
row_height = 30
col_width = 60
margin = 4

[sizes.plot]
width = 10

[sizes.heatmap]
width = 5
height = 5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != "10.0.0.5:9999" {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, "10.0.0.5:9999")
	}
	if cfg.Env != "experiments" {
		t.Fatalf("Env = %q, want experiments", cfg.Env)
	}
	if cfg.Cols != 12 {
		t.Fatalf("Cols = %d, want 12", cfg.Cols)
	}
	if cfg.Debounce != 120*time.Millisecond || cfg.Poll != 250*time.Millisecond {
		t.Fatalf("Debounce/Poll = %v/%v, want 120ms/250ms", cfg.Debounce, cfg.Poll)
	}
	if !strings.HasPrefix(cfg.StateDir, home) {
		t.Fatalf("StateDir = %q, want it under HOME %q", cfg.StateDir, home)
	}
	if cfg.Grid.RowHeight != 30 || cfg.Grid.ColWidth != 60 || cfg.Grid.Margin != 4 {
		t.Fatalf("Grid = %+v", cfg.Grid)
	}
	if got := cfg.Sizes.Lookup("plot"); got != (packer.Size{Width: 10, Height: 6}) {
		t.Fatalf("plot size = %+v, want 10x6", got)
	}
	if got := cfg.Sizes.Lookup("heatmap"); got != (packer.Size{Width: 5, Height: 5}) {
		t.Fatalf("heatmap size = %+v, want 5x5", got)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_bind = "   "
state_dir = ""
cols = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.Cols != defaultCols {
		t.Fatalf("Cols = %d, want %d", cfg.Cols, defaultCols)
	}
	wantStateDir, err := expandPath(defaultStateDir)
	if err != nil {
		t.Fatalf("expandPath(defaultStateDir) returned error: %v", err)
	}
	if cfg.StateDir != wantStateDir {
		t.Fatalf("StateDir = %q, want %q", cfg.StateDir, wantStateDir)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_bind = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenStateDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/panegrid.log")) {
		t.Fatalf("LogPath = %q, want it to end with /panegrid.log", got)
	}
}

func TestLoad_GridMarginZeroIsKept(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "zero", content: "[grid]\nmargin = 0\n", want: 0},
		{name: "missing", content: "[grid]\nrow_height = 30\n", want: defaultMargin},
		{name: "negative", content: "[grid]\nmargin = -3\n", want: defaultMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.Grid.Margin != tt.want {
				t.Fatalf("Grid.Margin = %d, want %d", cfg.Grid.Margin, tt.want)
			}
		})
	}
}
