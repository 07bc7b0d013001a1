// Package config loads binary configuration from the process environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/salman-113/storefront/pkg/validator"
)

// Load fills cfg, a pointer to an env-tagged struct, from the environment
// and then checks any validate tags on it. Defaults come from envDefault
// tags; list values split on the envSeparator tag. A config that parses but
// fails validation (a port out of range, a malformed URL) is rejected here,
// before any component starts with it.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
