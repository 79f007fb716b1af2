// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string   `env:"STRETCH_ADDR" envDefault:":8080"`
	DBDriver        string   `env:"STRETCH_DB_DRIVER" envDefault:"sqlite"`
	DBDSN           string   `env:"STRETCH_DB_DSN" envDefault:"stretch.db"`
	PremiumUsers    []string `env:"STRETCH_PREMIUM_USERS" envSeparator:","`
	DevUserFallback bool     `env:"STRETCH_DEV_USER_FALLBACK" envDefault:"true"`
}

// Load reads an optional .env file, then parses the environment. A
// missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsPremium reports whether the user appears in the configured premium
// list. Entitlement sync with a real billing backend lives elsewhere.
func (c Config) IsPremium(userID string) bool {
	for _, u := range c.PremiumUsers {
		if u == userID {
			return true
		}
	}
	return false
}
