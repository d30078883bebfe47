package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Arbitrary key shared by every process that migrates this database.
const migrationLockKey int64 = 0x6d72745f736368

const codeUndefinedTable = "42P01"

const createSchemaTable = `
CREATE TABLE IF NOT EXISTS "databaseSchema" (
    "singleton"     BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK ("singleton"),
    "schemaVersion" INTEGER NOT NULL
);
INSERT INTO "databaseSchema" ("schemaVersion") VALUES (0) ON CONFLICT DO NOTHING;
`

type migration struct {
	version int
	name    string
	sql     string
}

type MigrationResult struct {
	From int
	To   int
}

func (r MigrationResult) Applied() int { return r.To - r.From }

func loadMigrations(files fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var out []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: name must start with a version", e.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", e.Name(), prefix)
		}
		body, err := fs.ReadFile(files, path.Join("migrations", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		out = append(out, migration{version: version, name: e.Name(), sql: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	for i := range out {
		if out[i].version != i+1 {
			return nil, fmt.Errorf("migration %s: expected version %d", out[i].name, i+1)
		}
	}
	return out, nil
}

// LatestVersion is the schema version the embedded migrations produce.
func LatestVersion() (int, error) {
	ms, err := loadMigrations(migrationFiles)
	if err != nil {
		return 0, err
	}
	return len(ms), nil
}

func (s *PostgresStore) Migrate(ctx context.Context) (MigrationResult, error) {
	return migrate(ctx, s.beginner, migrationFiles)
}

func (s *PostgresStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.pool.QueryRow(ctx, `SELECT "schemaVersion" FROM "databaseSchema"`).Scan(&v)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable {
		return 0, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

// migrate applies every pending migration in one transaction, serialised
// across processes with an advisory lock.
func migrate(ctx context.Context, conn txBeginner, files fs.FS) (res MigrationResult, err error) {
	ms, err := loadMigrations(files)
	if err != nil {
		return res, err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin migration: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if _, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockKey); err != nil {
		return res, fmt.Errorf("acquire migration lock: %w", err)
	}
	if _, err = tx.Exec(ctx, createSchemaTable); err != nil {
		return res, fmt.Errorf("create schema table: %w", err)
	}
	if err = tx.QueryRow(ctx, `SELECT "schemaVersion" FROM "databaseSchema" FOR UPDATE`).Scan(&res.From); err != nil {
		return res, fmt.Errorf("read schema version: %w", err)
	}
	if res.From > len(ms) {
		return res, fmt.Errorf("database schema version %d is newer than this build (%d)", res.From, len(ms))
	}

	res.To = res.From
	for _, m := range ms[res.From:] {
		if _, err = tx.Exec(ctx, m.sql); err != nil {
			return res, fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		slog.Info("Applied migration", "version", m.version, "name", m.name)
		res.To = m.version
	}

	if res.To != res.From {
		if _, err = tx.Exec(ctx, `UPDATE "databaseSchema" SET "schemaVersion" = $1`, res.To); err != nil {
			return res, fmt.Errorf("record schema version: %w", err)
		}
	}
	if err = tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return res, fmt.Errorf("commit migration: %w", err)
	}
	return res, nil
}
