// Package config loads gofzy's layered configuration: hardcoded
// defaults, then the user's global config file, then a project-local
// override, then environment variables — each layer overriding the
// last, mirroring the teacher's config package's precedence order and
// merge-by-non-zero-value idiom.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is gofzy's complete configuration, loadable from YAML.
type Config struct {
	Version   int               `yaml:"version" json:"version"`
	Match     MatchConfig       `yaml:"match" json:"match"`
	Preview   PreviewConfig     `yaml:"preview" json:"preview"`
	Bindings  map[string]string `yaml:"bindings" json:"bindings"`
	UI        UIConfig          `yaml:"ui" json:"ui"`
	Walker    WalkerConfig      `yaml:"walker" json:"walker"`
	Control   ControlConfig     `yaml:"control" json:"control"`
	Telemetry TelemetryConfig   `yaml:"telemetry" json:"telemetry"`
}

// MatchConfig configures the default matching engine behavior.
type MatchConfig struct {
	// Algorithm selects the default engine: "fuzzy", "exact", or "regex".
	Algorithm string `yaml:"algorithm" json:"algorithm"`
	// Case selects "smart", "respect", or "ignore".
	Case string `yaml:"case" json:"case"`
	// Normalize folds Latin diacritics (é -> e) before matching.
	Normalize bool `yaml:"normalize" json:"normalize"`
	// Workers is the scorer worker-pool size (0 = runtime.NumCPU()).
	Workers int `yaml:"workers" json:"workers"`
	// Limit caps the number of ranked results kept (0 = unlimited).
	Limit int `yaml:"limit" json:"limit"`
	// Multi enables multi-selection mode.
	Multi bool `yaml:"multi" json:"multi"`
	// Delimiter splits each line into fields for --nth restriction.
	Delimiter string `yaml:"delimiter" json:"delimiter"`
}

// PreviewConfig configures the optional preview pane subprocess.
type PreviewConfig struct {
	// Command is the shell template expanded with {}/{q}/{+}/{n}/{k}.
	Command string `yaml:"command" json:"command"`
	// Delimiter splits the focused line into fields for {k}/{a..b}.
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// DebounceMS is the refocus-coalescing window in milliseconds.
	DebounceMS int `yaml:"debounce_ms" json:"debounce_ms"`
	// MaxBytes caps captured preview output before the subprocess is killed.
	MaxBytes int `yaml:"max_bytes" json:"max_bytes"`
}

// UIConfig configures rendering chrome.
type UIConfig struct {
	NoColor bool   `yaml:"no_color" json:"no_color"`
	Theme   string `yaml:"theme" json:"theme"`
}

// WalkerConfig configures the built-in --walker producer.
type WalkerConfig struct {
	RespectGitignore bool     `yaml:"respect_gitignore" json:"respect_gitignore"`
	FollowSymlinks   bool     `yaml:"follow_symlinks" json:"follow_symlinks"`
	ExcludeDirs      []string `yaml:"exclude_dirs" json:"exclude_dirs"`
}

// ControlConfig configures the optional remote-control socket.
type ControlConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Socket  string `yaml:"socket" json:"socket"`
}

// TelemetryConfig configures opt-in local query-latency telemetry.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// NewConfig returns a Config populated with gofzy's defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Match: MatchConfig{
			Algorithm: "fuzzy",
			Case:      "smart",
			Normalize: false,
			Workers:   runtime.NumCPU(),
			Limit:     0,
			Multi:     false,
			Delimiter: "",
		},
		Preview: PreviewConfig{
			Command:    "",
			Delimiter:  "",
			DebounceMS: 100,
			MaxBytes:   1 << 20,
		},
		Bindings: map[string]string{},
		UI: UIConfig{
			NoColor: false,
			Theme:   "default",
		},
		Walker: WalkerConfig{
			RespectGitignore: true,
			FollowSymlinks:   false,
			ExcludeDirs:      nil,
		},
		Control: ControlConfig{
			Enabled: false,
			Socket:  defaultControlSocket(),
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			Path:    defaultTelemetryPath(),
		},
	}
}

func defaultControlSocket() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("gofzy-%d.sock", os.Getpid()))
}

func defaultTelemetryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".gofzy", "telemetry.jsonl")
	}
	return filepath.Join(home, ".gofzy", "telemetry.jsonl")
}

// GetUserConfigPath returns the user/global config file path, following
// the XDG Base Directory spec.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gofzy", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "gofzy", "config.yaml")
	}
	return filepath.Join(home, ".config", "gofzy", "config.yaml")
}

// UserConfigExists reports whether the user config file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

func loadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, fmt.Errorf("config: load user config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the final Config for a run rooted at dir, applying
// defaults, then the user config, then a project-local .gofzy.yaml,
// then GOFZY_* environment variables, in increasing precedence.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{".gofzy.yaml", ".gofzy.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.mergeWith(&parsed)
	return nil
}

// mergeWith layers non-zero fields of other on top of c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Match.Algorithm != "" {
		c.Match.Algorithm = other.Match.Algorithm
	}
	if other.Match.Case != "" {
		c.Match.Case = other.Match.Case
	}
	if other.Match.Normalize {
		c.Match.Normalize = true
	}
	if other.Match.Workers != 0 {
		c.Match.Workers = other.Match.Workers
	}
	if other.Match.Limit != 0 {
		c.Match.Limit = other.Match.Limit
	}
	if other.Match.Multi {
		c.Match.Multi = true
	}
	if other.Match.Delimiter != "" {
		c.Match.Delimiter = other.Match.Delimiter
	}

	if other.Preview.Command != "" {
		c.Preview.Command = other.Preview.Command
	}
	if other.Preview.Delimiter != "" {
		c.Preview.Delimiter = other.Preview.Delimiter
	}
	if other.Preview.DebounceMS != 0 {
		c.Preview.DebounceMS = other.Preview.DebounceMS
	}
	if other.Preview.MaxBytes != 0 {
		c.Preview.MaxBytes = other.Preview.MaxBytes
	}

	for k, v := range other.Bindings {
		if c.Bindings == nil {
			c.Bindings = map[string]string{}
		}
		c.Bindings[k] = v
	}

	if other.UI.NoColor {
		c.UI.NoColor = true
	}
	if other.UI.Theme != "" {
		c.UI.Theme = other.UI.Theme
	}

	if other.Walker.RespectGitignore != c.Walker.RespectGitignore {
		c.Walker.RespectGitignore = other.Walker.RespectGitignore
	}
	if other.Walker.FollowSymlinks {
		c.Walker.FollowSymlinks = true
	}
	if len(other.Walker.ExcludeDirs) > 0 {
		c.Walker.ExcludeDirs = append(c.Walker.ExcludeDirs, other.Walker.ExcludeDirs...)
	}

	if other.Control.Enabled {
		c.Control.Enabled = true
	}
	if other.Control.Socket != "" {
		c.Control.Socket = other.Control.Socket
	}

	if other.Telemetry.Enabled {
		c.Telemetry.Enabled = true
	}
	if other.Telemetry.Path != "" {
		c.Telemetry.Path = other.Telemetry.Path
	}
}

// applyEnvOverrides applies GOFZY_* environment variable overrides,
// the highest-precedence layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GOFZY_ALGORITHM"); v != "" {
		c.Match.Algorithm = v
	}
	if v := os.Getenv("GOFZY_CASE"); v != "" {
		c.Match.Case = v
	}
	if v := os.Getenv("GOFZY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Match.Workers = n
		}
	}
	if v := os.Getenv("GOFZY_MULTI"); v != "" {
		c.Match.Multi = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("GOFZY_PREVIEW"); v != "" {
		c.Preview.Command = v
	}
	if v := os.Getenv("GOFZY_NO_COLOR"); v != "" {
		c.UI.NoColor = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("GOFZY_CONTROL_SOCKET"); v != "" {
		c.Control.Enabled = true
		c.Control.Socket = v
	}
}

// Validate rejects configurations that would otherwise surface as a
// confusing runtime error partway through a session.
func (c *Config) Validate() error {
	validAlgorithms := map[string]bool{"fuzzy": true, "exact": true, "regex": true}
	if !validAlgorithms[strings.ToLower(c.Match.Algorithm)] {
		return fmt.Errorf("match.algorithm must be 'fuzzy', 'exact', or 'regex', got %q", c.Match.Algorithm)
	}
	validCase := map[string]bool{"smart": true, "respect": true, "ignore": true}
	if !validCase[strings.ToLower(c.Match.Case)] {
		return fmt.Errorf("match.case must be 'smart', 'respect', or 'ignore', got %q", c.Match.Case)
	}
	if c.Match.Workers < 0 {
		return fmt.Errorf("match.workers must be non-negative, got %d", c.Match.Workers)
	}
	if c.Match.Limit < 0 {
		return fmt.Errorf("match.limit must be non-negative, got %d", c.Match.Limit)
	}
	if c.Preview.DebounceMS < 0 {
		return fmt.Errorf("preview.debounce_ms must be non-negative, got %d", c.Preview.DebounceMS)
	}
	if c.Preview.MaxBytes < 0 {
		return fmt.Errorf("preview.max_bytes must be non-negative, got %d", c.Preview.MaxBytes)
	}
	return nil
}

// WriteYAML writes the configuration to path, for `gofzy config init`-
// style scaffolding.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// FindProjectRoot walks up from startDir looking for a .git directory
// or a .gofzy.yaml/.yml marker file.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("config: absolute path: %w", err)
	}
	dir := absDir
	for {
		if dirExists(filepath.Join(dir, ".git")) {
			return dir, nil
		}
		if fileExists(filepath.Join(dir, ".gofzy.yaml")) || fileExists(filepath.Join(dir, ".gofzy.yml")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return absDir, nil
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DebounceDuration converts PreviewConfig.DebounceMS to a time.Duration.
func (p PreviewConfig) DebounceDuration() time.Duration {
	return time.Duration(p.DebounceMS) * time.Millisecond
}
