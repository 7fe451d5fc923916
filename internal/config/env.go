package config

import (
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Settings are the process-level options read from the environment
type Settings struct {
	ConfigPath string
	Debug      bool
	Parallel   bool
	PhaseOut   bool

	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
}

// LoadSettings reads the given .env files (".env" when none is named) and
// populates Settings from the environment. Missing files are not an error;
// variables already set in the environment win over file entries.
func LoadSettings(files ...string) (Settings, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, errors.Wrap(err, "failed to load environment file")
	}

	return Settings{
		ConfigPath: envOr("IVADUAL_CONFIG", ""),
		Debug:      envBool("IVADUAL_DEBUG", false),
		Parallel:   envBool("IVADUAL_PARALLEL", false),
		PhaseOut:   envBool("IVADUAL_LEGACY_PHASE_OUT", false),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "development"),
		SentryRelease:     envOr("SENTRY_RELEASE", "ivadual@dev"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
