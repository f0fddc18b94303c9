package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/core/roster"
)

// RosterLinker attaches unlinked roster entries to an account
type RosterLinker interface {
	LinkRosterEntries(ctx context.Context, badgeKey string, userID string) (int64, error)
}

// LinkRoster attaches every unlinked roster entry whose normalised badge matches
// badge to userID and returns how many entries changed. Zero is not an error.
func LinkRoster(ctx context.Context, store RosterLinker, logger *zap.Logger, badge string, userID string) (int64, error) {
	key := roster.NormalizeBadge(badge)
	if key == "" {
		return 0, fmt.Errorf("badge number is required to link roster entries")
	}
	if userID == "" {
		return 0, fmt.Errorf("account id is required to link roster entries")
	}

	linked, err := store.LinkRosterEntries(ctx, key, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to link roster entries: %w", err)
	}

	if linked == 0 {
		logger.Info("No pending roster entries for badge", zap.String("badge", key))
	} else {
		logger.Info("Linked roster entries", zap.String("badge", key), zap.String("user_id", userID), zap.Int64("count", linked))
	}

	return linked, nil
}
