package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"match-rank-tracker/internal/adapters/storage/postgres"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type schemaMigrator interface {
	Migrate(ctx context.Context) (postgres.MigrationResult, error)
	SchemaVersion(ctx context.Context) (int, error)
	Close()
}

type openFunc func(ctx context.Context, databaseURL string) (schemaMigrator, error)

func openPostgres(ctx context.Context, databaseURL string) (schemaMigrator, error) {
	store, err := postgres.NewPostgresStore(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func main() {
	_ = godotenv.Load()

	if err := newApp(openPostgres).Run(os.Args); err != nil {
		slog.Error("Migration command failed", "error", err)
		os.Exit(1)
	}
}

func newApp(open openFunc) *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "manage the match rank tracker database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "PostgreSQL connection string",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending migration",
				Action: func(c *cli.Context) error {
					return withStore(c, open, func(m schemaMigrator) error {
						res, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if res.Applied() == 0 {
							fmt.Fprintf(c.App.Writer, "schema is up to date at version %d\n", res.To)
							return nil
						}
						fmt.Fprintf(c.App.Writer, "migrated schema from version %d to %d\n", res.From, res.To)
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the current and latest schema versions",
				Action: func(c *cli.Context) error {
					latest, err := postgres.LatestVersion()
					if err != nil {
						return err
					}
					return withStore(c, open, func(m schemaMigrator) error {
						current, err := m.SchemaVersion(c.Context)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "schema version %d (latest %d)\n", current, latest)
						return nil
					})
				},
			},
		},
	}
}

func withStore(c *cli.Context, open openFunc, fn func(schemaMigrator) error) error {
	m, err := open(c.Context, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer m.Close()
	return fn(m)
}
