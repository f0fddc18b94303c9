package model

// Role is the access level of an account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// ShiftCodeStatus replaces hard deletion of shift codes. Retired codes are
// invisible to roster imports but stay referenced by historical entries.
type ShiftCodeStatus string

const (
	ShiftCodeActive  ShiftCodeStatus = "active"
	ShiftCodeRetired ShiftCodeStatus = "retired"
)

func (s ShiftCodeStatus) IsValid() bool {
	return s == ShiftCodeActive || s == ShiftCodeRetired
}

// Priority of an announcement
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityImportant Priority = "importante"
	PriorityUrgent    Priority = "urgente"
)

func (p Priority) IsValid() bool {
	return p == PriorityNormal || p == PriorityImportant || p == PriorityUrgent
}

// MidnightTime is stored for both ends of a shift that has no working hours
const MidnightTime = "00:00:00"
