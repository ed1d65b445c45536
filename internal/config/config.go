// Package config loads the game configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/database"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
	"gopkg.in/yaml.v3"
)

// GameConfig is the root of game.yaml.
type GameConfig struct {
	Run        RunConfig         `yaml:"run"`
	Difficulty difficulty.Config `yaml:"difficulty"`
	Arena      arena.Config      `yaml:"arena"`
	Wave       wave.Config       `yaml:"wave"`
	Notifier   NotifierConfig    `yaml:"notifier"`
	Database   database.Config   `yaml:"database"`
}

// RunConfig identifies the play-through and drives the host loop.
type RunConfig struct {
	// ID keys saved progress and inventory.
	ID string `yaml:"id"`

	// Seed for arena and placement randomness. 0 picks a time-based seed.
	Seed int64 `yaml:"seed"`

	// Tick is the host frame interval.
	Tick time.Duration `yaml:"tick"`
}

// NotifierConfig controls the spectator websocket.
type NotifierConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Path    string `yaml:"path"`

	// TokenHash is a bcrypt hash of the spectator token. Empty disables the check.
	TokenHash string `yaml:"token_hash"`

	// SendBuffer is the number of messages queued per spectator before it is dropped.
	SendBuffer int `yaml:"send_buffer"`

	// MaxSpectators and MaxPerIP cap connections; 0 means unlimited.
	MaxSpectators int `yaml:"max_spectators"`
	MaxPerIP      int `yaml:"max_per_ip"`

	WebSocket WebSocketConfig `yaml:"websocket"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the largest inbound message in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Run: RunConfig{
			ID:   "default",
			Tick: 50 * time.Millisecond,
		},
		Difficulty: difficulty.DefaultConfig(),
		Arena:      arena.DefaultConfig(),
		Wave:       wave.DefaultConfig(),
		Notifier: NotifierConfig{
			Address:       "127.0.0.1:4480",
			Path:          "/ws",
			SendBuffer:    32,
			MaxSpectators: 64,
			MaxPerIP:      4,
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{},
				MaxMessageSize: 4096,
			},
		},
		Database: database.DefaultConfig("data/wavecrawler.db"),
	}
}

// LoadConfig reads path over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*GameConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *GameConfig) Validate() error {
	var errs []error
	if c.Run.ID == "" {
		errs = append(errs, errors.New("run.id is required"))
	}
	if c.Run.Tick <= 0 {
		errs = append(errs, errors.New("run.tick must be positive"))
	}
	if err := c.Difficulty.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("difficulty: %w", err))
	}
	if err := c.Arena.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("arena: %w", err))
	}
	if err := c.Wave.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("wave: %w", err))
	}
	if c.Notifier.Enabled && c.Notifier.Address == "" {
		errs = append(errs, errors.New("notifier.address is required when enabled"))
	}
	if c.Notifier.MaxSpectators < 0 || c.Notifier.MaxPerIP < 0 {
		errs = append(errs, errors.New("notifier spectator limits must not be negative"))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	return errors.Join(errs...)
}

// IsOriginAllowed reports whether a websocket handshake from origin may
// proceed: "*" allows everything, an exact entry allows that origin, and an
// empty list falls back to same-origin.
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin treats a missing Origin header as same-origin (non-browser clients).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")
	return strings.EqualFold(originHost, requestHost)
}
