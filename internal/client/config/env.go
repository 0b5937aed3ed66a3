package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "GIGRITHM_"

// parseEnv loads dotEnvPath (or ./.env when dotEnvPath is empty and the file
// exists) into the process environment and overlays GIGRITHM_* variables
// onto cfg. Unset variables leave cfg untouched. A named .env file that
// cannot be read, or a variable that does not parse, panics like the JSON
// loader.
func parseEnv(cfg *Config, dotEnvPath string) {
	if dotEnvPath != "" {
		if err := godotenv.Load(dotEnvPath); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
