package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// schemaMigrations is keyed by version; versions are applied in ascending order.
func schemaMigrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE schedules (
				event_date VARCHAR(10) PRIMARY KEY,
				schedule_approved_since TEXT NOT NULL DEFAULT '',
				source_created_at TEXT NOT NULL DEFAULT '',
				queues JSONB NOT NULL DEFAULT '{}'::jsonb,
				valid_until TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
			CREATE INDEX idx_schedules_valid_until ON schedules (valid_until);

			CREATE TABLE reminders (
				chat_id BIGINT NOT NULL,
				queue_id VARCHAR(16) NOT NULL,
				notify_at TIMESTAMP WITH TIME ZONE NOT NULL,
				outage_start TIMESTAMP WITH TIME ZONE NOT NULL,
				outage_end TIMESTAMP WITH TIME ZONE NOT NULL,
				sent BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				CONSTRAINT reminders_chat_outage_unique UNIQUE (chat_id, outage_start)
			);
			CREATE INDEX idx_reminders_notify_at ON reminders (notify_at);
			CREATE INDEX idx_reminders_due ON reminders (notify_at) WHERE sent = FALSE;

			CREATE TABLE metadata (
				id VARCHAR(64) PRIMARY KEY,
				last_api_check TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}

// Migrator applies schema migrations recorded in the schema_migrations table.
type Migrator struct {
	db         *sql.DB
	logger     *logrus.Entry
	migrations map[int]string
}

func NewMigrator(db *sql.DB, logger *logrus.Entry) *Migrator {
	return &Migrator{
		db:         db,
		logger:     logger,
		migrations: schemaMigrations(),
	}
}

// Run creates the bookkeeping table and applies every migration newer than the stored version.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("failed to query current schema version: %w", err)
	}

	versions := make([]int, 0, len(m.migrations))
	for v := range m.migrations {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	for _, version := range versions {
		if version <= current {
			continue
		}
		if err := m.apply(ctx, version); err != nil {
			return err
		}
		m.logger.WithField("version", version).Info("Migration applied")
	}

	m.logger.WithField("version", m.latest(versions, current)).Debug("Schema is up to date")
	return nil
}

func (m *Migrator) apply(ctx context.Context, version int) error {
	txn, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx, m.migrations[version]); err != nil {
		return fmt.Errorf("failed to execute migration %d: %w", version, err)
	}
	if _, err := txn.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) latest(versions []int, current int) int {
	if len(versions) == 0 || versions[len(versions)-1] < current {
		return current
	}
	return versions[len(versions)-1]
}
