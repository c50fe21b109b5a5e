package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/packer"
)

// Config holds the dashboard client settings.
type Config struct {
	APIBind  string
	Env      string
	Cols     int
	Grid     layout.Grid
	Debounce time.Duration
	Poll     time.Duration
	StateDir string
	Sizes    layout.SizeTable
}

const (
	defaultConfigPath = "~/.config/panegrid/config.toml"
	defaultStateDir   = "~/.local/state/panegrid"
	defaultAPIBind    = "127.0.0.1:8097"
	defaultEnv        = "main"
	defaultCols       = 24
	defaultRowHeight  = 24
	defaultColWidth   = 48
	defaultMargin     = 8
	defaultDebounceMS = 50
	defaultPollMS     = 1000
)

type rawSize struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type rawConfig struct {
	APIBind    string `toml:"api_bind"`
	Env        string `toml:"env"`
	Cols       int    `toml:"cols"`
	DebounceMS int    `toml:"debounce_ms"`
	PollMS     int    `toml:"poll_ms"`
	StateDir   string `toml:"state_dir"`
	Grid       struct {
		RowHeight int  `toml:"row_height"`
		ColWidth  int  `toml:"col_width"`
		Margin    *int `toml:"margin"` // zero is valid, so presence matters
	} `toml:"grid"`
	Sizes map[string]rawSize `toml:"sizes"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:  defaultAPIBind,
		Env:      defaultEnv,
		Cols:     defaultCols,
		Grid:     layout.Grid{RowHeight: defaultRowHeight, ColWidth: defaultColWidth, Margin: defaultMargin},
		Debounce: defaultDebounceMS * time.Millisecond,
		Poll:     defaultPollMS * time.Millisecond,
		StateDir: mustExpand(defaultStateDir),
		Sizes:    layout.DefaultSizes(),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if raw.Cols > 0 {
		cfg.Cols = raw.Cols
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if raw.PollMS > 0 {
		cfg.Poll = time.Duration(raw.PollMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.StateDir); v != "" {
		cfg.StateDir = mustExpand(v)
	}
	if raw.Grid.RowHeight > 0 {
		cfg.Grid.RowHeight = raw.Grid.RowHeight
	}
	if raw.Grid.ColWidth > 0 {
		cfg.Grid.ColWidth = raw.Grid.ColWidth
	}
	if raw.Grid.Margin != nil && *raw.Grid.Margin >= 0 {
		cfg.Grid.Margin = *raw.Grid.Margin
	}
	if len(raw.Sizes) > 0 {
		overrides := make(layout.SizeTable, len(raw.Sizes))
		for typ, s := range raw.Sizes {
			overrides[typ] = packer.Size{Width: s.Width, Height: s.Height}
		}
		cfg.Sizes = cfg.Sizes.Merge(overrides)
	}

	return cfg, nil
}

// DatabasePath returns the SQLite file holding saved positions and views.
func (c Config) DatabasePath() string {
	return filepath.Join(c.stateDir(), "layout.db")
}

// LogPath returns the dashboard log file.
func (c Config) LogPath() string {
	return filepath.Join(c.stateDir(), "panegrid.log")
}

func (c Config) stateDir() string {
	if strings.TrimSpace(c.StateDir) == "" {
		return mustExpand(defaultStateDir)
	}
	return c.StateDir
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
