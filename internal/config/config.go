package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	appLog "facultycal/internal/log"
	"facultycal/internal/query"
	"facultycal/internal/view"
)

const (
	defaultListen     = "127.0.0.1:8080"
	defaultTimezone   = "Asia/Seoul"
	defaultDigestCron = "0 7 * * *"

	// DigestOff disables the upcoming-events digest.
	DigestOff = "off"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used for "today" and date parsing.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DefaultView is the view a fresh session opens in: month, week, day or list.
	DefaultView string `yaml:"default_view" json:"default_view"`

	// UpcomingLimit is the default size of the upcoming-events list.
	UpcomingLimit int `yaml:"upcoming_limit" json:"upcoming_limit"`

	// Digest is a standard 5-field cron spec for the upcoming-events digest,
	// or "off".
	Digest string `yaml:"digest" json:"digest"`

	// Seed lists YAML (.yaml/.yml) or iCalendar (.ics) files, or http(s)
	// iCalendar feed URLs, loaded at startup.
	Seed []string `yaml:"seed" json:"seed"`

	// SeedCache is where remote iCalendar seeds are cached. Empty means
	// "ics-cache" next to the config file.
	SeedCache string `yaml:"seed_cache,omitempty" json:"seed_cache,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        defaultListen,
		Timezone:      defaultTimezone,
		DefaultView:   string(view.ModeMonth),
		UpcomingLimit: query.DefaultUpcomingLimit,
		Digest:        defaultDigestCron,
		Seed:          []string{},
		LogLevel:      "info",
		BasicAuth:     nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if _, err := view.ParseMode(c.DefaultView); err != nil {
		c.DefaultView = string(view.ModeMonth)
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = query.DefaultUpcomingLimit
	}

	c.Digest = strings.TrimSpace(c.Digest)
	switch {
	case c.Digest == "":
		c.Digest = defaultDigestCron
	case strings.EqualFold(c.Digest, DigestOff):
		c.Digest = DigestOff
	default:
		if _, err := cron.ParseStandard(c.Digest); err != nil {
			appLog.Error("invalid digest cron spec; using default", err, "digest", c.Digest)
			c.Digest = defaultDigestCron
		}
	}

	if c.Seed == nil {
		c.Seed = []string{}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Location resolves Timezone, falling back to time.Local when it is unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// View returns DefaultView as a view mode.
func (c *Config) View() view.Mode {
	m, err := view.ParseMode(c.DefaultView)
	if err != nil {
		return view.ModeMonth
	}
	return m
}

// DigestEnabled reports whether a digest schedule is configured.
func (c *Config) DigestEnabled() bool {
	return c.Digest != "" && c.Digest != DigestOff
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there with 0600
// permissions and returned. Relative seed paths are resolved against the
// config file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			err := Save(path, cfg)
			cfg.resolvePaths(filepath.Dir(path))
			// Even if save fails, return cfg with error so caller can decide.
			return cfg, err
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// resolvePaths makes relative seed files and the seed cache relative to dir.
func (c *Config) resolvePaths(dir string) {
	for i, p := range c.Seed {
		if p != "" && !filepath.IsAbs(p) && !strings.Contains(p, "://") {
			c.Seed[i] = filepath.Join(dir, p)
		}
	}
	switch {
	case c.SeedCache == "":
		c.SeedCache = filepath.Join(dir, "ics-cache")
	case !filepath.IsAbs(c.SeedCache):
		c.SeedCache = filepath.Join(dir, c.SeedCache)
	}
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".facultycal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
