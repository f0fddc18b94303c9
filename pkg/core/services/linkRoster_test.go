package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/db"
)

func TestLinkRoster_LinksOnlyMatchingOrphans(t *testing.T) {
	store := newMemStore()
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{ID: "e1", BadgeNumberRaw: "123", Date: "2024-03-15"}
	store.entries[entryKey("123", "2024-03-16")] = db.RosterEntry{ID: "e2", BadgeNumberRaw: "123", Date: "2024-03-16"}
	store.entries[entryKey("456", "2024-03-15")] = db.RosterEntry{ID: "e3", BadgeNumberRaw: "456", Date: "2024-03-15"}

	linked, err := LinkRoster(context.Background(), store, zap.NewNop(), "123", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), linked)

	assert.Equal(t, "acc-1", store.entries[entryKey("123", "2024-03-15")].UserID)
	assert.Equal(t, "acc-1", store.entries[entryKey("123", "2024-03-16")].UserID)
	assert.Empty(t, store.entries[entryKey("456", "2024-03-15")].UserID)
}

func TestLinkRoster_AlreadyLinkedEntriesAreKept(t *testing.T) {
	store := newMemStore()
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "123", UserID: "acc-old", Date: "2024-03-15"}

	linked, err := LinkRoster(context.Background(), store, zap.NewNop(), "123", "acc-1")
	require.NoError(t, err)
	assert.Zero(t, linked)
	assert.Equal(t, "acc-old", store.entries[entryKey("123", "2024-03-15")].UserID)
}

func TestLinkRoster_NormalizesBadge(t *testing.T) {
	store := newMemStore()
	store.entries[entryKey("12.345-k", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "12.345-k", Date: "2024-03-15"}

	linked, err := LinkRoster(context.Background(), store, zap.NewNop(), " 12345K", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), linked)
}

func TestLinkRoster_NothingPending(t *testing.T) {
	store := newMemStore()

	linked, err := LinkRoster(context.Background(), store, zap.NewNop(), "999", "acc-1")
	require.NoError(t, err)
	assert.Zero(t, linked)
}

func TestLinkRoster_RequiresBadgeAndUser(t *testing.T) {
	store := newMemStore()

	_, err := LinkRoster(context.Background(), store, zap.NewNop(), " .- ", "acc-1")
	assert.Error(t, err)

	_, err = LinkRoster(context.Background(), store, zap.NewNop(), "123", "")
	assert.Error(t, err)

	assert.Empty(t, store.calls)
}

type failingLinker struct{}

func (failingLinker) LinkRosterEntries(ctx context.Context, badgeKey string, userID string) (int64, error) {
	return 0, errors.New("timeout")
}

func TestLinkRoster_StoreError(t *testing.T) {
	_, err := LinkRoster(context.Background(), failingLinker{}, zap.NewNop(), "123", "acc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
