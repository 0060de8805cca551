// Package config loads and validates the engine's deployment-level knobs:
// which location types a running instance serves, the sublocation-count
// bounds each type's generator must stay within, the critical-failure
// probability, per-role LM timeouts, and the Director retry policy.
package config

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config specifies the engine-level parameters that are not baked into any
// single generator table: everything a deployment would want to change
// without recompiling.
type Config struct {
	// Seed seeds anything in the engine that still needs a master seed
	// outside the per-location draws (spec §4.C2 generators seed from the
	// location id alone and ignore this). Use 0 to auto-generate from the
	// current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// LocationTypes lists the biome registry entries this deployment
	// enables, e.g. "forest". Each must have a matching SizeBounds entry.
	LocationTypes []string `yaml:"locationTypes" json:"locationTypes"`

	// SizeBounds gives the legal sublocation-count range per location type
	// (spec §4.C2/C3: a generator's output is a blueprint; this is an
	// engine-level sanity bound on top of the structural invariants C3
	// already enforces).
	SizeBounds map[string]SizeRange `yaml:"sizeBounds" json:"sizeBounds"`

	// CriticalFailureProbability is the uniform chance that any execution
	// ends in a distinguished critical failure (spec §4.C6: "≈15% of all
	// executions").
	CriticalFailureProbability float64 `yaml:"criticalFailureProbability" json:"criticalFailureProbability"`

	// Timeouts bounds how long the engine waits on each LM role.
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Retry controls how many times the Director is re-submitted to after
	// an invalid-JSON or schema-violating reply before the engine gives up
	// and reports a hard failure.
	Retry RetryConfig `yaml:"retry" json:"retry"`
}

// SizeRange is an inclusive sublocation-count bound for one location type.
type SizeRange struct {
	MinSublocations int `yaml:"minSublocations" json:"minSublocations"`
	MaxSublocations int `yaml:"maxSublocations" json:"maxSublocations"`
}

// TimeoutConfig holds the per-role LM timeouts in whole seconds, matching
// the grain the rest of the engine's timeout constants are specified at.
type TimeoutConfig struct {
	DirectorSeconds int `yaml:"directorSeconds" json:"directorSeconds"`
	NarratorSeconds int `yaml:"narratorSeconds" json:"narratorSeconds"`
	PersonaSeconds  int `yaml:"personaSeconds" json:"personaSeconds"`
}

// Director returns the Director timeout as a time.Duration.
func (t TimeoutConfig) Director() time.Duration { return time.Duration(t.DirectorSeconds) * time.Second }

// Narrator returns the Narrator timeout as a time.Duration.
func (t TimeoutConfig) Narrator() time.Duration { return time.Duration(t.NarratorSeconds) * time.Second }

// Persona returns the skill-persona timeout as a time.Duration.
func (t TimeoutConfig) Persona() time.Duration { return time.Duration(t.PersonaSeconds) * time.Second }

// RetryConfig controls re-submission of a rejected Director candidate batch.
type RetryConfig struct {
	// MaxAttempts is the total number of Director submissions allowed for
	// one GenerateActions call, including the first. 1 means no retry.
	MaxAttempts int `yaml:"maxAttempts" json:"maxAttempts"`

	// BackoffSeconds is the delay before each retry attempt.
	BackoffSeconds int `yaml:"backoffSeconds" json:"backoffSeconds"`
}

// Backoff returns the retry delay as a time.Duration.
func (r RetryConfig) Backoff() time.Duration { return time.Duration(r.BackoffSeconds) * time.Second }

// Default returns the engine's built-in configuration: the single "forest"
// location type and the constants the executor package used before it took
// a Config (spec §4.C6's ≈15% figure, its 30s/20s/25s role timeouts, and no
// retry).
func Default() *Config {
	return &Config{
		LocationTypes: []string{"forest"},
		SizeBounds: map[string]SizeRange{
			"forest": {MinSublocations: 4, MaxSublocations: 9},
		},
		CriticalFailureProbability: 0.15,
		Timeouts: TimeoutConfig{
			DirectorSeconds: 30,
			NarratorSeconds: 20,
			PersonaSeconds:  25,
		},
		Retry: RetryConfig{MaxAttempts: 1, BackoffSeconds: 0},
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice. Useful
// for testing and programmatic config generation.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := *Default()
	cfg.SizeBounds = nil // let the file's bounds (if any) replace the default outright
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if cfg.SizeBounds == nil {
		cfg.SizeBounds = Default().SizeBounds
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks every field for internal consistency. It returns the
// first violation found.
func (c *Config) Validate() error {
	if len(c.LocationTypes) == 0 {
		return errors.New("at least one location type must be specified")
	}
	for _, lt := range c.LocationTypes {
		bounds, ok := c.SizeBounds[lt]
		if !ok {
			return fmt.Errorf("location type %q has no sizeBounds entry", lt)
		}
		if err := bounds.Validate(); err != nil {
			return fmt.Errorf("sizeBounds[%s]: %w", lt, err)
		}
	}

	if c.CriticalFailureProbability < 0.0 || c.CriticalFailureProbability > 1.0 {
		return fmt.Errorf("criticalFailureProbability must be in range [0.0, 1.0], got %f", c.CriticalFailureProbability)
	}

	if err := c.Timeouts.Validate(); err != nil {
		return fmt.Errorf("timeouts: %w", err)
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("retry: %w", err)
	}

	return nil
}

// Validate checks SizeRange constraints.
func (s SizeRange) Validate() error {
	if s.MinSublocations < 1 {
		return fmt.Errorf("minSublocations must be at least 1, got %d", s.MinSublocations)
	}
	if s.MinSublocations > s.MaxSublocations {
		return fmt.Errorf("minSublocations (%d) must be <= maxSublocations (%d)", s.MinSublocations, s.MaxSublocations)
	}
	return nil
}

// Validate checks TimeoutConfig constraints: every role needs a positive
// timeout.
func (t TimeoutConfig) Validate() error {
	if t.DirectorSeconds <= 0 {
		return fmt.Errorf("directorSeconds must be positive, got %d", t.DirectorSeconds)
	}
	if t.NarratorSeconds <= 0 {
		return fmt.Errorf("narratorSeconds must be positive, got %d", t.NarratorSeconds)
	}
	if t.PersonaSeconds <= 0 {
		return fmt.Errorf("personaSeconds must be positive, got %d", t.PersonaSeconds)
	}
	return nil
}

// Validate checks RetryConfig constraints.
func (r RetryConfig) Validate() error {
	if r.MaxAttempts < 1 {
		return fmt.Errorf("maxAttempts must be at least 1, got %d", r.MaxAttempts)
	}
	if r.BackoffSeconds < 0 {
		return fmt.Errorf("backoffSeconds must not be negative, got %d", r.BackoffSeconds)
	}
	return nil
}

// InBounds reports whether count sublocations is within locationType's
// configured SizeRange. A location type absent from SizeBounds is treated
// as unbounded (true).
func (c *Config) InBounds(locationType string, count int) bool {
	bounds, ok := c.SizeBounds[locationType]
	if !ok {
		return true
	}
	return count >= bounds.MinSublocations && count <= bounds.MaxSublocations
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic SHA-256 hash of the configuration's YAML
// encoding.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed creates a seed from the current time.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
