// Package config loads the application configuration: listen address,
// geometry file paths, escalation policy, alert destination, and the
// synthetic feed settings. The engine itself takes its policy as
// explicit construction arguments; this package is where those values
// come from in the binary.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bluenet-io/bluenet/internal/alert"
)

// Escalation is the engine policy block.
type Escalation struct {
	// CooldownSeconds is the minimum spacing between two successful
	// escalations.
	CooldownSeconds int `yaml:"cooldown_seconds"`

	// MaxPerEpisode caps successful escalations per outside episode.
	MaxPerEpisode int `yaml:"max_per_episode"`

	// StartInside is the containment assumption before the first
	// observation.
	StartInside bool `yaml:"start_inside"`
}

// Cooldown returns the cooldown as a duration.
func (e Escalation) Cooldown() time.Duration {
	return time.Duration(e.CooldownSeconds) * time.Second
}

// Feed configures the synthetic position producer.
type Feed struct {
	// IntervalSeconds between synthetic reports.
	IntervalSeconds int `yaml:"interval_seconds"`

	// ScenarioPath points to a YAML scenario file; empty selects the
	// built-in demo scenario.
	ScenarioPath string `yaml:"scenario_file"`

	// Autostart launches the feed with the server.
	Autostart bool `yaml:"autostart"`
}

// Interval returns the report interval as a duration.
func (f Feed) Interval() time.Duration {
	return time.Duration(f.IntervalSeconds) * time.Second
}

// Config is the full application configuration.
type Config struct {
	ListenPort   int    `yaml:"listen_port"`
	ZoneFile     string `yaml:"zone_file"`
	BoundaryFile string `yaml:"boundary_file"`
	EventLog     string `yaml:"event_log"`

	Escalation Escalation   `yaml:"escalation"`
	Alert      alert.Config `yaml:"alert"`
	Feed       Feed         `yaml:"feed"`

	// hash identifies the raw file content this config was loaded
	// from; surfaced by the status API.
	hash string
}

// Hash returns "sha256:<hex>" of the raw config file content. The
// default config carries the hash of empty input.
func (c *Config) Hash() string {
	return c.hash
}

// Default returns the built-in configuration matching the source
// system's defaults.
func Default() *Config {
	empty := sha256.Sum256(nil)
	return &Config{
		hash: "sha256:" + hex.EncodeToString(empty[:]),
		ListenPort:   5000,
		ZoneFile:     "maritime_zone.geojson",
		BoundaryFile: "maritime_boundary.geojson",
		EventLog:     "bluenet_events.db",
		Escalation: Escalation{
			CooldownSeconds: 30,
			MaxPerEpisode:   3,
			StartInside:     true,
		},
		Feed: Feed{
			IntervalSeconds: 2,
		},
	}
}

// Load reads configuration from a YAML file. A missing file returns
// defaults; invalid YAML or invalid values return an error.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithHash(path)
	return cfg, err
}

// LoadWithHash additionally returns "sha256:<hex>" of the raw file, for
// the status API. The hash of the default config is the hash of empty
// input.
func LoadWithHash(path string) (*Config, string, error) {
	cfg := Default()

	var raw []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, "", fmt.Errorf("config: read %s: %w", path, err)
			}
		} else {
			raw = data
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, "", fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	h := sha256.Sum256(raw)
	cfg.hash = "sha256:" + hex.EncodeToString(h[:])
	return cfg, cfg.hash, nil
}

// Validate rejects values the engine or server cannot run with.
func (c *Config) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("config: listen_port %d out of range", c.ListenPort)
	}
	if c.ZoneFile == "" {
		return fmt.Errorf("config: zone_file is required")
	}
	if c.Escalation.CooldownSeconds < 0 {
		return fmt.Errorf("config: escalation.cooldown_seconds must not be negative")
	}
	if c.Escalation.MaxPerEpisode < 1 {
		return fmt.Errorf("config: escalation.max_per_episode must be at least 1")
	}
	if c.Feed.IntervalSeconds < 1 {
		return fmt.Errorf("config: feed.interval_seconds must be at least 1")
	}
	return nil
}
