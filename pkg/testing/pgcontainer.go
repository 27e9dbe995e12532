package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// IntegrationEnv must be set to a non-empty value to start containers.
const IntegrationEnv = "SUMM_INTEGRATION"

// RequireIntegration skips the test unless IntegrationEnv is set.
func RequireIntegration(tb testing.TB) {
	tb.Helper()
	if os.Getenv(IntegrationEnv) == "" {
		tb.Skipf("set %s=1 to run container tests", IntegrationEnv)
	}
}

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Database string
	Username string
	Password string
	// InitScripts are SQL statements run once the database is up.
	InitScripts []string
}

func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	return createPGContainer(ctx, cfg)
}

func NewPGContainerWithCleanup(ctx context.Context, tb testing.TB, initScripts ...string) *PGContainer {
	tb.Helper()

	container, err := createPGContainer(ctx, PGConfig{
		Database:    "summ_eval_test",
		Username:    "test",
		Password:    "test",
		InitScripts: initScripts,
	})
	if err != nil {
		tb.Fatalf("failed to create postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	})

	return container
}

func createPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	opts := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		),
	}

	if len(cfg.InitScripts) > 0 {
		tmpFile, err := os.CreateTemp("", "init-*.sql")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		defer os.Remove(tmpFile.Name())

		if _, err := tmpFile.WriteString(strings.Join(cfg.InitScripts, ";\n")); err != nil {
			return nil, fmt.Errorf("failed to write init scripts: %w", err)
		}
		if err := tmpFile.Close(); err != nil {
			return nil, fmt.Errorf("failed to close temp file: %w", err)
		}
		opts = append(opts, postgres.WithInitScripts(tmpFile.Name()))
	}

	pgContainer, err := postgres.Run(ctx, "postgres:17.5", opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{
		Container:  pgContainer,
		ConnString: connStr,
	}, nil
}
