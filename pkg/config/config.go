// Package config handles loading and saving sitenav configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/sitenav/config.yaml
//
// Precedence, lowest first: defaults, config file, .env / environment,
// command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/sitenav/pkg/model"
)

// DefaultAPIURL is used when nothing else names a content API.
const DefaultAPIURL = "http://localhost:3000/api"

// Site is a named content source. Either API or TreeFile is set.
type Site struct {
	Name     string `yaml:"name"`
	API      string `yaml:"api,omitempty"`
	TreeFile string `yaml:"tree_file,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	SidebarWidth int  `yaml:"sidebar_width,omitempty"` // Columns for the sidebar in split mode
	WordWrap     int  `yaml:"word_wrap,omitempty"`     // Markdown wrap width, 0 = pane width
	ShowStats    bool `yaml:"show_stats,omitempty"`    // Node counts in the footer
}

// NetworkConfig tunes the HTTP client.
type NetworkConfig struct {
	RateLimit float64 `yaml:"rate_limit,omitempty"` // Requests per second, 0 = unlimited
	Timeout   string  `yaml:"timeout,omitempty"`    // Go duration, e.g. "15s"
}

// DiscoveryConfig controls auto-discovery of local tree files.
type DiscoveryConfig struct {
	ScanPaths []string `yaml:"scan_paths,omitempty"`
	MaxDepth  int      `yaml:"max_depth,omitempty"`
}

// Config is the top-level configuration for sn.
type Config struct {
	Title      string          `yaml:"title,omitempty"` // Shown at the top of the sidebar
	API        string          `yaml:"api,omitempty"`
	TreeFile   string          `yaml:"tree_file,omitempty"`
	Sites      []Site          `yaml:"sites,omitempty"`
	Navigation []model.NavItem `yaml:"navigation,omitempty"`
	UI         UIConfig        `yaml:"ui,omitempty"`
	Network    NetworkConfig   `yaml:"network,omitempty"`
	Discovery  DiscoveryConfig `yaml:"discovery,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Title:      "sitenav",
		API:        DefaultAPIURL,
		Navigation: model.DefaultNavigation(),
		UI: UIConfig{
			SidebarWidth: 36,
			ShowStats:    true,
		},
		Network: NetworkConfig{
			RateLimit: 5,
			Timeout:   "15s",
		},
		Discovery: DiscoveryConfig{
			MaxDepth: 3,
		},
	}
}

// ConfigDir returns the XDG config directory for sn.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sitenav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sitenav")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Navigation) == 0 {
		cfg.Navigation = model.DefaultNavigation()
	}
	cfg.TreeFile = expandHome(cfg.TreeFile)
	for i := range cfg.Sites {
		cfg.Sites[i].TreeFile = expandHome(cfg.Sites[i].TreeFile)
	}
	for i := range cfg.Discovery.ScanPaths {
		cfg.Discovery.ScanPaths[i] = expandHome(cfg.Discovery.ScanPaths[i])
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Timeout parses Network.Timeout, returning 0 when unset or invalid.
func (c Config) Timeout() time.Duration {
	if c.Network.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Network.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// FindSite returns the site with the given name, or nil.
func (c Config) FindSite(name string) *Site {
	for i := range c.Sites {
		if strings.EqualFold(c.Sites[i].Name, name) {
			return &c.Sites[i]
		}
	}
	return nil
}

// UseSite copies a site's source into the top-level API and TreeFile.
func (c *Config) UseSite(name string) error {
	s := c.FindSite(name)
	if s == nil {
		return fmt.Errorf("unknown site %q", name)
	}
	if s.API != "" {
		c.API = s.API
	}
	c.TreeFile = s.TreeFile
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
