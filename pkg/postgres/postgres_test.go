package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabineros/intranet/pkg/core/roster"
	"github.com/carabineros/intranet/pkg/db"
)

func TestPendingMigrations(t *testing.T) {
	pending, err := pendingMigrations(map[string]bool{})
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_initial.sql", pending[0])

	applied := make(map[string]bool)
	for _, name := range pending {
		applied[name] = true
	}
	pending, err = pendingMigrations(applied)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	require.NotNil(t, nullable("x"))
	assert.Equal(t, "x", *nullable("x"))

	assert.Equal(t, "", fromNullable(nil))
	s := "08:00:00"
	assert.Equal(t, "08:00:00", fromNullable(&s))
}

func TestUpsertArgs_BadgeKeyMatchesAccountNormalisation(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"12.345-k", "12345K"},
		{"12\u00a0345K", "12345K"},
		{"12\u2007345\tk", "12345K"},
		{"456", "456"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			args := upsertArgs(db.RosterEntry{ID: "e1", BadgeNumberRaw: tt.raw, Date: "2024-03-15"})
			require.Len(t, args, 9)
			assert.Equal(t, tt.raw, args[1])
			assert.Equal(t, tt.expected, args[2])
			assert.Equal(t, roster.NormalizeBadge(tt.raw), args[2])
		})
	}
}

func TestUpsertArgs_UnlinkedEntryHasNullUser(t *testing.T) {
	args := upsertArgs(db.RosterEntry{ID: "e1", BadgeNumberRaw: "123", Date: "2024-03-15"})
	assert.Nil(t, args[3])

	args = upsertArgs(db.RosterEntry{ID: "e1", BadgeNumberRaw: "123", UserID: "acc-1", Date: "2024-03-15"})
	require.NotNil(t, args[3])
	assert.Equal(t, "acc-1", *(args[3].(*string)))
}

func TestInitialMigration_BadgeKeyIsPlainColumn(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, "migrations/001_initial.sql")
	require.NoError(t, err)
	sql := string(content)

	assert.Contains(t, sql, "badge_key TEXT NOT NULL")
	assert.NotContains(t, sql, "GENERATED ALWAYS")
	assert.NotContains(t, sql, "regexp_replace")
	assert.Contains(t, sql, "idx_roster_entry_unlinked ON roster_entry (badge_key)")
}
