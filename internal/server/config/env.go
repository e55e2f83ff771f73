package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by the server,
// e.g. BOOKSHELF_DATABASE_DSN.
const EnvPrefix = "BOOKSHELF_"

// parseEnv overlays variables that are set; unset ones leave config as is.
func parseEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
