package containers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/vlatan/reels-mixer/internal/config"
)

type dbContainer struct {
	container *postgres.PostgresContainer
}

// SetupTestDB creates a PostgreSQL container with the migrations applied,
// and updates the db host and port of the supplied config.
func SetupTestDB(ctx context.Context, cfg *config.Config, projectRoot string) (Container, error) {

	initScripts, err := getMigrationFiles(filepath.Join(projectRoot, "migrations"))
	if err != nil {
		return nil, err
	}

	container, err := postgres.Run(ctx, "postgres:16.3",
		postgres.WithSQLDriver("pgx"),
		postgres.WithInitScripts(initScripts...),
		postgres.WithDatabase(cfg.DBDatabase),
		postgres.WithUsername(cfg.DBUsername),
		postgres.WithPassword(cfg.DBPassword),
		postgres.BasicWaitStrategies(),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		if cErr := container.Terminate(ctx); cErr != nil {
			err = errors.Join(err, cErr)
		}
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		if cErr := container.Terminate(ctx); cErr != nil {
			err = errors.Join(err, cErr)
		}
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	// Update config with container connection details
	cfg.DBHost = host
	cfg.DBPort = port.Int()

	return &dbContainer{container}, nil
}

// Terminate stops and removes the container
func (db *dbContainer) Terminate(ctx context.Context) {
	terminate(ctx, db.container)
}

// getMigrationFiles returns the up migrations in order
func getMigrationFiles(migrationsDir string) ([]string, error) {

	var migrations []string
	err := filepath.WalkDir(migrationsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(d.Name(), ".up.sql") {
			migrations = append(migrations, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.Sort(migrations)
	return migrations, nil
}
