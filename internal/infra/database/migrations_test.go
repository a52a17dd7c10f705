package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaMigrations(t *testing.T) {
	migration, exists := schemaMigrations()[1]
	assert.True(t, exists, "Migration version 1 should exist")

	for _, table := range []string{"CREATE TABLE schedules", "CREATE TABLE reminders", "CREATE TABLE metadata"} {
		assert.Contains(t, migration, table)
	}

	// Upserts depend on these keys.
	assert.Contains(t, migration, "event_date VARCHAR(10) PRIMARY KEY")
	assert.Contains(t, migration, "CONSTRAINT reminders_chat_outage_unique UNIQUE (chat_id, outage_start)")
	assert.Contains(t, migration, "id VARCHAR(64) PRIMARY KEY")

	assert.Contains(t, migration, "WHERE sent = FALSE", "Should have partial index for unsent reminders")
}

func TestMigratorLatest(t *testing.T) {
	m := &Migrator{}
	assert.Equal(t, 3, m.latest([]int{1, 2, 3}, 1))
	assert.Equal(t, 4, m.latest([]int{1, 2, 3}, 4))
	assert.Equal(t, 0, m.latest(nil, 0))
}
