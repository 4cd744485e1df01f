package backend

import "time"

// Config represents the configuration for the storefront API client
type Config struct {
	// BaseURL is the backend origin; "/api" is appended to every path.
	BaseURL string

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit. Zero means 5.
	BreakerFailures uint32

	// BreakerCooldown is how long the circuit stays open. Zero means 30s.
	BreakerCooldown time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.Timeout < 0 || c.BreakerCooldown < 0 {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Timeout == 0 {
		out.Timeout = 10 * time.Second
	}
	if out.BreakerFailures == 0 {
		out.BreakerFailures = 5
	}
	if out.BreakerCooldown == 0 {
		out.BreakerCooldown = 30 * time.Second
	}
	return out
}
