package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/config/env"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/utils"
)

const defaultEnvPath = "cmd/summ_api/.env"

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	// GoldPath is the gold-standard dataset scored against, required.
	GoldPath string
	// EvalConfigPath is an optional YAML evaluation config.
	EvalConfigPath string
}

func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), defaultEnvPath); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (*Config, error) {
	port := getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.SplitList(getenv("CORS_ORIGINS"), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	gold := getenv("SUMM_GS_DATA")
	if gold == "" {
		return nil, errors.New("SUMM_GS_DATA is required")
	}

	return &Config{
		Port:           port,
		UseHttp2:       getenv("USE_HTTP2") == "true",
		CorsOrigins:    origins,
		GoldPath:       gold,
		EvalConfigPath: getenv("SUMM_CONFIG"),
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
