// Package config loads fsmcheck defaults from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file in the working directory. Command-line flags override them.
//
//	FSMCHECK_FORMAT      output format, text|json (default text)
//	FSMCHECK_DB          SQLite history database path (default none)
//	FSMCHECK_LOG_LEVEL   debug|info|warn|error (default info)
//	FSMCHECK_GOLDEN_DIR  golden report directory for `test` (default <scenarios>/golden)
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment values cannot be parsed.
var ErrParsingConfig = errors.New("config: failed to parse environment")

// Config holds environment-provided defaults.
type Config struct {
	Format    string `env:"FSMCHECK_FORMAT" envDefault:"text"`
	Database  string `env:"FSMCHECK_DB"`
	LogLevel  string `env:"FSMCHECK_LOG_LEVEL" envDefault:"info"`
	GoldenDir string `env:"FSMCHECK_GOLDEN_DIR"`
}

// Load reads the .env file if one exists, then parses the environment.
// A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// LoadFile seeds the environment from the given dotenv files without
// overriding variables that are already set, then parses.
func LoadFile(paths ...string) (Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return Parse()
}
