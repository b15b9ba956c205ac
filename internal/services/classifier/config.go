// File: internal/services/classifier/config.go
package classifier

import (
	"fmt"
	"time"
)

type Config struct {
	APIURL     string        // Inference endpoint for the leaf disease model
	APIKey     string        // Bearer token
	Timeout    time.Duration // Per-request timeout
	MaxRetries int
	RetryDelay time.Duration
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("CLASSIFIER_API_URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("CLASSIFIER_API_KEY is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}
