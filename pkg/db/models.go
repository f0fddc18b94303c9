package db

import (
	"time"

	"github.com/carabineros/intranet/pkg/core/model"
)

// ShiftCode represents a shift code ("sigla") definition
type ShiftCode struct {
	ID           string
	Code         string
	Name         string
	IsRest       bool
	StartTime    string // nullable, HH:MM:SS
	EndTime      string // nullable, HH:MM:SS
	Color        string
	Status       model.ShiftCodeStatus
	DisplayOrder int
}

// Account represents a user account profile
type Account struct {
	ID              string
	BadgeNumber     string
	FullName        string
	Rank            string
	Role            model.Role
	Email           string
	Phone           string
	WhatsappEnabled bool
}

// RosterEntry represents one shift assignment for one calendar date.
// StartTime, EndTime and ServiceType are copied from the shift code at import time.
type RosterEntry struct {
	ID             string
	BadgeNumberRaw string
	UserID         string // nullable, empty while the badge has no account
	ShiftCodeID    string
	Date           string // Format: "2006-01-02"
	ServiceType    string
	StartTime      string
	EndTime        string
}

// Linked reports whether the entry is attached to an account
func (e RosterEntry) Linked() bool {
	return e.UserID != ""
}

// RosterFilter narrows a roster read. Zero fields are not applied.
type RosterFilter struct {
	UserID   string
	DateFrom string
	DateTo   string
}

// Post represents an announcement
type Post struct {
	ID             string
	Title          string
	Content        string
	Category       string
	Priority       model.Priority
	IsPrivate      bool
	IsActive       bool
	AttachmentURL  string // nullable
	AttachmentName string // nullable
	CreatedBy      string
	CreatedAt      time.Time
}

// PostRead represents a read receipt
type PostRead struct {
	PostID string
	UserID string
	ReadAt time.Time
}

// Stats holds the dashboard counters
type Stats struct {
	ActivePosts      int
	Accounts         int
	EntriesToday     int
	ActiveShiftCodes int
}
