package env

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// PathVar overrides the .env location passed to LoadDotEnv.
const PathVar = "ENV_PATH"

// LoadDotEnv loads environment variables from a .env file located at $ENV_PATH
// or defaultPath. Variables already set in the process win. A missing file is
// an error only when env is "local" or empty.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv(PathVar)
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == "local" || env == "" {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		slog.Debug("Skipping .env ...", "path", envPath)
	}

	return nil
}
