package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/clients/provisioning"
	"github.com/carabineros/intranet/pkg/core/roster"
	"github.com/carabineros/intranet/pkg/db"
)

// AccountProvisioner creates, updates and deletes accounts
type AccountProvisioner interface {
	CreateAccount(ctx context.Context, account provisioning.Account) (string, error)
	UpdateAccount(ctx context.Context, userID string, account provisioning.Account) error
	DeleteAccount(ctx context.Context, userID string) error
}

// AccountStore defines the database operations account management needs
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*db.Account, error)
	RosterLinker
}

// AccountResult reports the account id and how many roster entries were linked to it
type AccountResult struct {
	UserID string
	Linked int64
}

func validateAccount(account provisioning.Account) error {
	if err := validate.Struct(account); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}
	if roster.NormalizeBadge(account.BadgeNumber) == "" {
		return fmt.Errorf("invalid account: badge number has no letters or digits")
	}
	return nil
}

// CreateAccount provisions an account and then links any roster entries
// imported for its badge before the account existed
func CreateAccount(
	ctx context.Context,
	provisioner AccountProvisioner,
	linker RosterLinker,
	logger *zap.Logger,
	account provisioning.Account,
) (*AccountResult, error) {
	if err := validateAccount(account); err != nil {
		return nil, err
	}
	if account.Password == "" {
		return nil, fmt.Errorf("invalid account: an initial password is required")
	}

	logger.Debug("Creating account", zap.String("badge", account.BadgeNumber), zap.String("role", string(account.Role)))

	userID, err := provisioner.CreateAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("Account created", zap.String("user_id", userID), zap.String("badge", account.BadgeNumber))

	result := &AccountResult{UserID: userID}
	linked, err := LinkRoster(ctx, linker, logger, account.BadgeNumber, userID)
	if err != nil {
		return result, fmt.Errorf("account %s created but roster linking failed: %w", userID, err)
	}
	result.Linked = linked

	return result, nil
}

// UpdateAccount replaces an account profile. Roster entries are relinked when
// the badge changed or when relink is set.
func UpdateAccount(
	ctx context.Context,
	store AccountStore,
	provisioner AccountProvisioner,
	logger *zap.Logger,
	userID string,
	account provisioning.Account,
	relink bool,
) (*AccountResult, error) {
	if err := validateAccount(account); err != nil {
		return nil, err
	}

	existing, err := store.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	if err := provisioner.UpdateAccount(ctx, userID, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", zap.String("user_id", userID))

	result := &AccountResult{UserID: userID}
	badgeChanged := roster.NormalizeBadge(existing.BadgeNumber) != roster.NormalizeBadge(account.BadgeNumber)
	if !badgeChanged && !relink {
		return result, nil
	}

	linked, err := LinkRoster(ctx, store, logger, account.BadgeNumber, userID)
	if err != nil {
		return result, fmt.Errorf("account %s updated but roster linking failed: %w", userID, err)
	}
	result.Linked = linked

	return result, nil
}

// RelinkAccount links pending roster entries to an existing account by its current badge
func RelinkAccount(ctx context.Context, store AccountStore, logger *zap.Logger, userID string) (*AccountResult, error) {
	account, err := store.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	linked, err := LinkRoster(ctx, store, logger, account.BadgeNumber, userID)
	if err != nil {
		return nil, err
	}

	return &AccountResult{UserID: userID, Linked: linked}, nil
}

// DeleteAccount removes an account. Its roster entries keep their raw badge.
func DeleteAccount(ctx context.Context, provisioner AccountProvisioner, logger *zap.Logger, userID string) error {
	if userID == "" {
		return fmt.Errorf("account id is required")
	}

	if err := provisioner.DeleteAccount(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", zap.String("user_id", userID))
	return nil
}
