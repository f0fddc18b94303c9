package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/clients/provisioning"
	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

// mockProvisioner implements AccountProvisioner
type mockProvisioner struct {
	createdID string
	err       error

	created []provisioning.Account
	updated map[string]provisioning.Account
	deleted []string
}

func (m *mockProvisioner) CreateAccount(ctx context.Context, account provisioning.Account) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.created = append(m.created, account)
	return m.createdID, nil
}

func (m *mockProvisioner) UpdateAccount(ctx context.Context, userID string, account provisioning.Account) error {
	if m.err != nil {
		return m.err
	}
	if m.updated == nil {
		m.updated = make(map[string]provisioning.Account)
	}
	m.updated[userID] = account
	return nil
}

func (m *mockProvisioner) DeleteAccount(ctx context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, userID)
	return nil
}

func validAccount() provisioning.Account {
	return provisioning.Account{
		BadgeNumber: "123",
		FullName:    "Ana Pérez",
		Role:        model.RoleStaff,
		Email:       "ana@example.com",
		Password:    "initial-pass",
	}
}

func TestCreateAccount_LinksPendingEntries(t *testing.T) {
	store := newMemStore()
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "123", Date: "2024-03-15"}
	store.entries[entryKey("123", "2024-03-16")] = db.RosterEntry{BadgeNumberRaw: "123", Date: "2024-03-16"}
	store.entries[entryKey("456", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "456", Date: "2024-03-15"}
	provisioner := &mockProvisioner{createdID: "acc-1"}

	result, err := CreateAccount(context.Background(), provisioner, store, zap.NewNop(), validAccount())
	require.NoError(t, err)

	assert.Equal(t, "acc-1", result.UserID)
	assert.Equal(t, int64(2), result.Linked)
	require.Len(t, provisioner.created, 1)
	assert.Empty(t, store.entries[entryKey("456", "2024-03-15")].UserID)
}

func TestCreateAccount_ProvisioningFailureSkipsLinking(t *testing.T) {
	store := newMemStore()
	provisioner := &mockProvisioner{err: &provisioning.Error{StatusCode: 409, Message: "email already registered"}}

	_, err := CreateAccount(context.Background(), provisioner, store, zap.NewNop(), validAccount())
	require.Error(t, err)

	var provErr *provisioning.Error
	assert.True(t, errors.As(err, &provErr))
	assert.Empty(t, store.calls)
}

func TestCreateAccount_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(a *provisioning.Account)
	}{
		{"missing badge", func(a *provisioning.Account) { a.BadgeNumber = "" }},
		{"badge without characters", func(a *provisioning.Account) { a.BadgeNumber = " - " }},
		{"missing name", func(a *provisioning.Account) { a.FullName = "" }},
		{"invalid role", func(a *provisioning.Account) { a.Role = "chief" }},
		{"invalid email", func(a *provisioning.Account) { a.Email = "not-an-email" }},
		{"missing password", func(a *provisioning.Account) { a.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provisioner := &mockProvisioner{createdID: "acc-1"}
			account := validAccount()
			tt.modify(&account)

			_, err := CreateAccount(context.Background(), provisioner, newMemStore(), zap.NewNop(), account)
			assert.Error(t, err)
			assert.Empty(t, provisioner.created)
		})
	}
}

func TestUpdateAccount_BadgeChangeRelinks(t *testing.T) {
	store := newMemStore()
	store.accounts = []db.Account{{ID: "acc-1", BadgeNumber: "111"}}
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "123", Date: "2024-03-15"}
	provisioner := &mockProvisioner{}

	result, err := UpdateAccount(context.Background(), store, provisioner, zap.NewNop(), "acc-1", validAccount(), false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Linked)
	assert.Contains(t, provisioner.updated, "acc-1")
}

func TestUpdateAccount_SameBadgeDoesNotRelink(t *testing.T) {
	store := newMemStore()
	store.accounts = []db.Account{{ID: "acc-1", BadgeNumber: "1-2-3"}}
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "123", Date: "2024-03-15"}

	result, err := UpdateAccount(context.Background(), store, &mockProvisioner{}, zap.NewNop(), "acc-1", validAccount(), false)
	require.NoError(t, err)

	assert.Zero(t, result.Linked)
	assert.NotContains(t, store.calls, "LinkRosterEntries")
}

func TestUpdateAccount_RequestedRelink(t *testing.T) {
	store := newMemStore()
	store.accounts = []db.Account{{ID: "acc-1", BadgeNumber: "123"}}
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "123", Date: "2024-03-15"}

	account := validAccount()
	account.Password = ""
	result, err := UpdateAccount(context.Background(), store, &mockProvisioner{}, zap.NewNop(), "acc-1", account, true)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Linked)
}

func TestUpdateAccount_UnknownAccount(t *testing.T) {
	provisioner := &mockProvisioner{}

	_, err := UpdateAccount(context.Background(), newMemStore(), provisioner, zap.NewNop(), "missing", validAccount(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrNotFound))
	assert.Empty(t, provisioner.updated)
}

func TestRelinkAccount(t *testing.T) {
	store := newMemStore()
	store.accounts = []db.Account{{ID: "acc-1", BadgeNumber: "123"}}
	store.entries[entryKey("123", "2024-03-15")] = db.RosterEntry{BadgeNumberRaw: "123", Date: "2024-03-15"}

	result, err := RelinkAccount(context.Background(), store, zap.NewNop(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Linked)
}

func TestDeleteAccount(t *testing.T) {
	provisioner := &mockProvisioner{}

	require.NoError(t, DeleteAccount(context.Background(), provisioner, zap.NewNop(), "acc-1"))
	assert.Equal(t, []string{"acc-1"}, provisioner.deleted)

	assert.Error(t, DeleteAccount(context.Background(), provisioner, zap.NewNop(), ""))
}
