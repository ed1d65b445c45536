package wave

import (
	"fmt"
	"time"
)

// Config holds the wave timings and placement radii.
type Config struct {
	Invulnerability     time.Duration `yaml:"invulnerability"`
	PollInterval        time.Duration `yaml:"poll_interval"`
	ActivationDelay     time.Duration `yaml:"activation_delay"`
	ClearedMessageDelay time.Duration `yaml:"cleared_message_delay"`
	PortalEntryDelay    time.Duration `yaml:"portal_entry_delay"`
	// SpawnInterval staggers regular hostiles one per interval. Zero spawns
	// them all at once; the boss always spawns immediately.
	SpawnInterval time.Duration `yaml:"spawn_interval"`

	EnemySafeRadius       float64 `yaml:"enemy_safe_radius"`
	CollectibleSafeRadius float64 `yaml:"collectible_safe_radius"`
	PortalMinDistance     float64 `yaml:"portal_min_distance"`

	PortalTypeID string `yaml:"portal_type_id"`
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		Invulnerability:     2 * time.Second,
		PollInterval:        300 * time.Millisecond,
		ActivationDelay:     500 * time.Millisecond,
		ClearedMessageDelay: 2 * time.Second,
		PortalEntryDelay:    500 * time.Millisecond,
		EnemySafeRadius:     3,
		PortalMinDistance:   5,
		PortalTypeID:        "portal",
	}
}

// Validate checks timings and radii.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	for name, d := range map[string]time.Duration{
		"invulnerability":       c.Invulnerability,
		"activation_delay":      c.ActivationDelay,
		"cleared_message_delay": c.ClearedMessageDelay,
		"portal_entry_delay":    c.PortalEntryDelay,
		"spawn_interval":        c.SpawnInterval,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, d)
		}
	}
	if c.EnemySafeRadius < 0 || c.CollectibleSafeRadius < 0 || c.PortalMinDistance < 0 {
		return fmt.Errorf("placement radii must not be negative")
	}
	if c.PortalTypeID == "" {
		return fmt.Errorf("portal_type_id is required")
	}
	return nil
}
