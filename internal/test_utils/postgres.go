package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/timesheet/internal/config"
	"github.com/klokku/timesheet/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// IntegrationEnv must be set to 1 for tests that start containers.
const IntegrationEnv = "TIMESHEET_INTEGRATION"

const (
	dbName     = "timesheet"
	dbUser     = "test_timesheet"
	dbPassword = "test_timesheet"
	dbSchema   = "timesheet"
)

var (
	containerOnce sync.Once
	container     *postgres.PostgresContainer
	containerCfg  config.Database
	containerErr  error
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	pgContainer, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

func startContainer() (*postgres.PostgresContainer, config.Database, error) {
	ctx := context.Background()

	c, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, config.Database{}, err
	}

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: dbSchema,
	}

	if err := database.Migrate(cfg); err != nil {
		return nil, config.Database{}, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := c.Snapshot(ctx, postgres.WithSnapshotName("postgres-test-snapshot")); err != nil {
		return nil, config.Database{}, fmt.Errorf("failed to snapshot postgres container: %w", err)
	}
	return c, cfg, nil
}

// SetupTestDB returns a pool to a migrated Postgres started once per test
// binary. The database is restored to its freshly migrated snapshot when the
// test finishes. Skipped unless TIMESHEET_INTEGRATION=1.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv(IntegrationEnv) != "1" {
		t.Skipf("set %s=1 to run Postgres integration tests", IntegrationEnv)
	}

	containerOnce.Do(func() {
		container, containerCfg, containerErr = startContainer()
	})
	if containerErr != nil {
		t.Fatalf("Failed to start postgres container: %v", containerErr)
	}

	pool, err := database.Open(context.Background(), containerCfg)
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := container.Restore(context.Background()); err != nil {
			t.Errorf("Failed to restore database snapshot: %v", err)
		}
	})
	return pool
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
