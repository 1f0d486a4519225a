/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/activityradar/pkg/logger"
)

const migrationsTable = "activityradar_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version string
	name    string
}

// loadMigrations lists the embedded .up.sql files in version order.
func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations: read embedded migrations: %w", err)
	}

	migrations := make([]migration, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		migrations = append(migrations, migration{
			version: migrationVersion(entry.Name()),
			name:    entry.Name(),
		})
	}

	slices.SortFunc(migrations, func(a, b migration) int {
		return strings.Compare(a.name, b.name)
	})

	return migrations, nil
}

func migrationVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")

	return version
}

// RunMigrations applies every embedded migration not yet recorded in the
// tracking table. Each migration runs in its own transaction.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log logger.Logger) error {
	if pool == nil {
		return nil
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version     TEXT PRIMARY KEY,
		applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, migrationsTable)); err != nil {
		return fmt.Errorf("migrations: create tracking table: %w", err)
	}

	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, ok := applied[m.version]; ok {
			continue
		}

		if err := applyMigration(ctx, pool, m); err != nil {
			return err
		}

		log.Info().Str("migration", m.name).Msg("Applied migration")
	}

	return nil
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) (map[string]struct{}, error) {
	rows, err := pool.Query(ctx, fmt.Sprintf(`SELECT version FROM %s`, migrationsTable))
	if err != nil {
		return nil, fmt.Errorf("migrations: list applied versions: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("migrations: scan applied version: %w", err)
		}

		applied[version] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("migrations: iterate applied versions: %w", err)
	}

	return applied, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, m migration) (err error) {
	content, err := migrationsFS.ReadFile("migrations/" + m.name)
	if err != nil {
		return fmt.Errorf("migrations: read %s: %w", m.name, err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migrations: begin %s: %w", m.name, err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for idx, stmt := range splitSQLStatements(string(content)) {
		if _, err = tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrations: statement %d in %s failed: %w", idx+1, m.name, err)
		}
	}

	if _, err = tx.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1)`, migrationsTable), m.version); err != nil {
		return fmt.Errorf("migrations: record %s: %w", m.name, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("migrations: commit %s: %w", m.name, err)
	}

	return nil
}
