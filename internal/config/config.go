// Package config loads habitstreak settings.
//
// Settings come from three layers, later ones winning: built-in defaults,
// the YAML file at $XDG_CONFIG_HOME/habitstreak/config.yaml (or
// ~/.config/habitstreak/config.yaml), and HABITSTREAK_* environment
// variables. A .env file next to config.yaml is loaded into the environment
// first without overriding variables that are already set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"habitstreak/internal/fsutil"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Environment overrides.
const (
	EnvDataDir = "HABITSTREAK_DATA_DIR"
	EnvBackend = "HABITSTREAK_BACKEND"
	EnvDebug   = "HABITSTREAK_DEBUG"
)

const appName = "habitstreak"

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.habitstreak)
	DataDir string `yaml:"data_dir,omitempty"`

	Storage       StorageConfig      `yaml:"storage,omitempty"`
	Theme         ThemeConfig        `yaml:"theme,omitempty"`
	Keys          KeysConfig         `yaml:"keys,omitempty"`
	UX            UXConfig           `yaml:"ux,omitempty"`
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
	Log           LogConfig          `yaml:"log,omitempty"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "json" (default) or "sqlite"
	Backend string `yaml:"backend,omitempty"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	Sound   bool `yaml:"sound,omitempty"`

	// Milestones sends a notification when a streak hits 7, 14, 30... days
	Milestones bool `yaml:"milestones,omitempty"` // default: true
}

// LogConfig controls the log file.
type LogConfig struct {
	// Debug lowers the level to debug and mirrors logs to stderr
	Debug bool `yaml:"debug,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for completed days and highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Flame color for streak counters (hex)
	Flame string `yaml:"flame,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty"`     // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`     // default: "?"
	Calendar string `yaml:"calendar,omitempty"` // default: "tab,c"

	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g,home"
	Bottom string `yaml:"bottom,omitempty"` // default: "G,end"

	Toggle   string `yaml:"toggle,omitempty"`    // default: "space,enter"
	Add      string `yaml:"add,omitempty"`       // default: "a"
	Edit     string `yaml:"edit,omitempty"`      // default: "e"
	Delete   string `yaml:"delete,omitempty"`    // default: "x"
	MoveUp   string `yaml:"move_up,omitempty"`   // default: "K,shift+up"
	MoveDown string `yaml:"move_down,omitempty"` // default: "J,shift+down"

	PrevMonth string `yaml:"prev_month,omitempty"` // default: "h,left"
	NextMonth string `yaml:"next_month,omitempty"` // default: "l,right"
	ThisMonth string `yaml:"this_month,omitempty"` // default: "t"

	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions asks before deleting a habit and its history
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// ShowWelcome shows the welcome screen on first launch
	ShowWelcome bool `yaml:"show_welcome,omitempty"` // default: true
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{Backend: BackendJSON},
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
			Flame:   "#F97316", // Orange
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			ShowWelcome:      true,
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			Sound:      false,
			Milestones: true,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// Dir returns the configuration directory (XDG compliant), or "" when no
// home directory can be found.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Path returns the path to the config file.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults, then applies
// environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if dir := Dir(); dir != "" {
		if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
			return nil, err
		}
	}

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.mergeYAML(data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeYAML(data []byte) error {
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	c.mergeFromYAML(&userCfg, &doc)
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Log.Debug = debug
	}
	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage.Backend, BackendJSON, BackendSQLite)
	}
}

// mergeNonEmpty applies non-empty strings from other to c.
// Booleans require presence-aware merging and are left alone here.
func (c *Config) mergeNonEmpty(other *Config) {
	fields := []struct {
		dst *string
		src string
	}{
		{&c.DataDir, other.DataDir},
		{&c.Storage.Backend, strings.ToLower(other.Storage.Backend)},

		{&c.Theme.Primary, other.Theme.Primary},
		{&c.Theme.Accent, other.Theme.Accent},
		{&c.Theme.Muted, other.Theme.Muted},
		{&c.Theme.Flame, other.Theme.Flame},
		{&c.Theme.Background, other.Theme.Background},
		{&c.Theme.Text, other.Theme.Text},

		{&c.Keys.Quit, other.Keys.Quit},
		{&c.Keys.Help, other.Keys.Help},
		{&c.Keys.Calendar, other.Keys.Calendar},
		{&c.Keys.Up, other.Keys.Up},
		{&c.Keys.Down, other.Keys.Down},
		{&c.Keys.Top, other.Keys.Top},
		{&c.Keys.Bottom, other.Keys.Bottom},
		{&c.Keys.Toggle, other.Keys.Toggle},
		{&c.Keys.Add, other.Keys.Add},
		{&c.Keys.Edit, other.Keys.Edit},
		{&c.Keys.Delete, other.Keys.Delete},
		{&c.Keys.MoveUp, other.Keys.MoveUp},
		{&c.Keys.MoveDown, other.Keys.MoveDown},
		{&c.Keys.PrevMonth, other.Keys.PrevMonth},
		{&c.Keys.NextMonth, other.Keys.NextMonth},
		{&c.Keys.ThisMonth, other.Keys.ThisMonth},
		{&c.Keys.Confirm, other.Keys.Confirm},
		{&c.Keys.Cancel, other.Keys.Cancel},
	}
	for _, f := range fields {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a document we cannot tell an explicit false from a missing key.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	bools := []struct {
		path []string
		dst  *bool
		src  bool
	}{
		{[]string{"ux", "confirm_deletions"}, &c.UX.ConfirmDeletions, other.UX.ConfirmDeletions},
		{[]string{"ux", "show_welcome"}, &c.UX.ShowWelcome, other.UX.ShowWelcome},
		{[]string{"notifications", "enabled"}, &c.Notifications.Enabled, other.Notifications.Enabled},
		{[]string{"notifications", "sound"}, &c.Notifications.Sound, other.Notifications.Sound},
		{[]string{"notifications", "milestones"}, &c.Notifications.Milestones, other.Notifications.Milestones},
		{[]string{"log", "debug"}, &c.Log.Debug, other.Log.Debug},
	}
	for _, b := range bools {
		if yamlHasPath(doc, b.path...) {
			*b.dst = b.src
		}
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// ResolvedDataDir returns the data directory with a leading ~ expanded.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") || strings.HasPrefix(c.DataDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.DataDir[2:])
		}
	}
	return c.DataDir
}
