package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "orders.db"
	DefaultLogName        = "posdesk.log"
	appDirName            = "posdesk"
)

type Keymap struct {
	Quit         string `toml:"quit"`
	NextPane     string `toml:"next_pane"`
	ClockSync    string `toml:"clock_sync"`
	ClockFormat  string `toml:"clock_format"`
	ClockRestart string `toml:"clock_restart"`
	ClockStatus  string `toml:"clock_status"`
	FilterNext   string `toml:"filter_next"`
	FilterPrev   string `toml:"filter_prev"`
	OptionNext   string `toml:"option_next"`
	OptionPrev   string `toml:"option_prev"`
	Submit       string `toml:"submit"`
	Reset        string `toml:"reset"`
}

type Clock struct {
	Zone          string `toml:"zone"`
	OffsetHours   int    `toml:"offset_hours"`
	Format        string `toml:"format"`
	IntervalMS    int    `toml:"interval_ms"`
	DisplayMarkup string `toml:"display_markup"`
}

type Calculator struct {
	// LegacyZeroCheck turns on the textual "/0" division-by-zero shortcut.
	LegacyZeroCheck bool `toml:"legacy_zero_check"`
}

type Filter struct {
	DebounceMS       int  `toml:"debounce_ms"`
	ResetAfterMS     int  `toml:"reset_after_ms"`
	SearchableSelect bool `toml:"searchable_select"`
}

type Config struct {
	DBPath     string     `toml:"db_path"`
	LogPath    string     `toml:"log_path"`
	SeedDemo   bool       `toml:"seed_demo"`
	Clock      Clock      `toml:"clock"`
	Calculator Calculator `toml:"calculator"`
	Filter     Filter     `toml:"filter"`
	Keys       Keymap     `toml:"keys"`
}

func (c Clock) Offset() time.Duration { return time.Duration(c.OffsetHours) * time.Hour }

func (c Clock) Interval() time.Duration { return time.Duration(c.IntervalMS) * time.Millisecond }

func (f Filter) Debounce() time.Duration { return time.Duration(f.DebounceMS) * time.Millisecond }

func (f Filter) ResetAfter() time.Duration { return time.Duration(f.ResetAfterMS) * time.Millisecond }

// ResolveConfigPath returns the config file path, honouring POSDESK_CONFIG.
func ResolveConfigPath() string {
	if p := os.Getenv("POSDESK_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) fillDefaults(dir string) {
	def := defaultConfig(dir)
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.Clock.Zone == "" {
		c.Clock.Zone = def.Clock.Zone
	}
	if c.Clock.Format != "12" && c.Clock.Format != "24" {
		c.Clock.Format = def.Clock.Format
	}
	if c.Clock.IntervalMS <= 0 {
		c.Clock.IntervalMS = def.Clock.IntervalMS
	}
	if c.Filter.DebounceMS <= 0 {
		c.Filter.DebounceMS = def.Filter.DebounceMS
	}
	if c.Filter.ResetAfterMS <= 0 {
		c.Filter.ResetAfterMS = def.Filter.ResetAfterMS
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:   filepath.Join(dir, DefaultDBName),
		LogPath:  filepath.Join(dir, DefaultLogName),
		SeedDemo: true,
		Clock: Clock{
			Zone:          "Africa/Nairobi",
			OffsetHours:   3,
			Format:        "24",
			IntervalMS:    1000,
			DisplayMarkup: "⏱ <span>00:00:00</span>",
		},
		Filter: Filter{
			DebounceMS:       300,
			ResetAfterMS:     5000,
			SearchableSelect: true,
		},
		Keys: Keymap{
			Quit:         "ctrl+c",
			NextPane:     "tab",
			ClockSync:    "ctrl+s",
			ClockFormat:  "ctrl+f",
			ClockRestart: "ctrl+r",
			ClockStatus:  "ctrl+t",
			FilterNext:   "down",
			FilterPrev:   "up",
			OptionNext:   "right",
			OptionPrev:   "left",
			Submit:       "enter",
			Reset:        "esc",
		},
	}
}
