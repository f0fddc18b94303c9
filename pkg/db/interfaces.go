package db

import (
	"context"

	"github.com/carabineros/intranet/pkg/core/model"
)

// ShiftCodeStore defines the interface for shift code catalog operations
type ShiftCodeStore interface {
	GetShiftCodes(ctx context.Context) ([]ShiftCode, error)
	InsertShiftCode(ctx context.Context, code *ShiftCode) error
	UpdateShiftCode(ctx context.Context, code *ShiftCode) error
	SetShiftCodeStatus(ctx context.Context, id string, status model.ShiftCodeStatus) error
}

// AccountDirectory defines the read side of the account directory.
// Accounts are written only by the provisioning function.
type AccountDirectory interface {
	GetAccounts(ctx context.Context) ([]Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
}

// RosterWriter defines the roster mutations used by a roster import
type RosterWriter interface {
	DeleteRosterEntriesByBadges(ctx context.Context, badges []string, dates []string) (int64, error)
	DeleteRosterEntriesByUsers(ctx context.Context, userIDs []string, dates []string) (int64, error)
	UpsertRosterEntries(ctx context.Context, entries []RosterEntry) error
}

// RosterStore defines the interface for roster operations
type RosterStore interface {
	RosterWriter
	GetRosterEntries(ctx context.Context, filter RosterFilter) ([]RosterEntry, error)
	LinkRosterEntries(ctx context.Context, badgeKey string, userID string) (int64, error)
}

// RosterImportStore is everything a roster import reads and writes
type RosterImportStore interface {
	GetShiftCodes(ctx context.Context) ([]ShiftCode, error)
	GetAccounts(ctx context.Context) ([]Account, error)
	RosterWriter
}

// PostStore defines the interface for announcement operations
type PostStore interface {
	GetPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	InsertPost(ctx context.Context, post *Post, recipientIDs []string) error
	DeletePost(ctx context.Context, id string) error
	GetPostRecipients(ctx context.Context, postID string) ([]string, error)
	GetRecipientPostIDs(ctx context.Context, userID string) ([]string, error)
	GetPostReads(ctx context.Context, postID string) ([]PostRead, error)
	GetUserReads(ctx context.Context, userID string) ([]PostRead, error)
	InsertPostRead(ctx context.Context, read *PostRead) (bool, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	ShiftCodeStore
	AccountDirectory
	RosterStore
	PostStore
	GetStats(ctx context.Context, today string) (*Stats, error)
}
