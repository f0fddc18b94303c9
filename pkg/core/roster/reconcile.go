package roster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

// Reconciliation is the outcome of matching extracted assignments against the
// shift code catalog and the account directory
type Reconciliation struct {
	// ToUpsert holds one draft per assignment whose shift code is active,
	// linked to an account when the badge matched one
	ToUpsert []db.RosterEntry
	// UnknownCodes holds assignments dropped because their code is not active
	UnknownCodes []Assignment
	// UnlinkedBadges lists the distinct normalised badges in ToUpsert without an account
	UnlinkedBadges []string
	// Duplicates holds assignments superseded by a later cell for the same badge and date
	Duplicates []Assignment
}

// DistinctUnknownCodes returns the sorted set of unrecognised shift codes
func (r *Reconciliation) DistinctUnknownCodes() []string {
	return distinctCodes(r.UnknownCodes)
}

// HasWarnings reports whether the import should be surfaced with a warning
func (r *Reconciliation) HasWarnings() bool {
	return len(r.UnknownCodes) > 0 || len(r.UnlinkedBadges) > 0 || len(r.Duplicates) > 0
}

// RejectedImportError is returned when no assignment survives reconciliation.
// Nothing is written to the store in that case.
type RejectedImportError struct {
	UnknownCodes []string
}

func (e *RejectedImportError) Error() string {
	if len(e.UnknownCodes) == 0 {
		return "no valid roster assignments found"
	}
	return fmt.Sprintf("no valid roster assignments found, unknown shift codes: %s",
		strings.Join(e.UnknownCodes, ", "))
}

// Reconcile classifies assignments against the catalog and directory.
// Only active shift codes are considered; codes are matched case-insensitively
// and badges by NormalizeBadge.
func Reconcile(assignments []Assignment, catalog []db.ShiftCode, directory []db.Account) (*Reconciliation, error) {
	codes := make(map[string]db.ShiftCode, len(catalog))
	for _, sc := range catalog {
		if sc.Status != model.ShiftCodeActive {
			continue
		}
		codes[normalizeCode(sc.Code)] = sc
	}

	accounts := make(map[string]string, len(directory))
	for _, a := range directory {
		key := NormalizeBadge(a.BadgeNumber)
		if key == "" {
			continue
		}
		accounts[key] = a.ID
	}

	result := &Reconciliation{
		ToUpsert:       []db.RosterEntry{},
		UnknownCodes:   []Assignment{},
		UnlinkedBadges: []string{},
		Duplicates:     []Assignment{},
	}

	type naturalKey struct{ badge, date string }
	position := make(map[naturalKey]int)
	sources := make([]Assignment, 0, len(assignments))
	unlinked := make(map[string]bool)

	for _, a := range assignments {
		sc, ok := codes[normalizeCode(a.ShiftCode)]
		if !ok {
			result.UnknownCodes = append(result.UnknownCodes, a)
			continue
		}

		badgeKey := NormalizeBadge(a.Badge)
		entry := db.RosterEntry{
			BadgeNumberRaw: a.Badge,
			UserID:         accounts[badgeKey],
			ShiftCodeID:    sc.ID,
			Date:           a.Date,
			ServiceType:    sc.Name,
		}
		entry.StartTime, entry.EndTime = shiftHours(sc)

		key := naturalKey{a.Badge, a.Date}
		if idx, seen := position[key]; seen {
			result.Duplicates = append(result.Duplicates, sources[idx])
			result.ToUpsert[idx] = entry
			sources[idx] = a
			continue
		}
		position[key] = len(result.ToUpsert)
		result.ToUpsert = append(result.ToUpsert, entry)
		sources = append(sources, a)
	}

	for _, e := range result.ToUpsert {
		if !e.Linked() {
			unlinked[NormalizeBadge(e.BadgeNumberRaw)] = true
		}
	}
	for badge := range unlinked {
		result.UnlinkedBadges = append(result.UnlinkedBadges, badge)
	}
	sort.Strings(result.UnlinkedBadges)

	if len(result.ToUpsert) == 0 {
		return result, &RejectedImportError{UnknownCodes: result.DistinctUnknownCodes()}
	}

	return result, nil
}

// shiftHours snapshots the working hours of a shift code. Rest days and
// unset times are stored as midnight.
func shiftHours(sc db.ShiftCode) (start, end string) {
	if sc.IsRest {
		return model.MidnightTime, model.MidnightTime
	}
	return clockOrMidnight(sc.StartTime), clockOrMidnight(sc.EndTime)
}

func clockOrMidnight(t string) string {
	t = strings.TrimSpace(t)
	switch len(t) {
	case 0:
		return model.MidnightTime
	case len("15:04"):
		return t + ":00"
	default:
		return t
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func distinctCodes(assignments []Assignment) []string {
	seen := make(map[string]bool)
	codes := make([]string, 0)
	for _, a := range assignments {
		if seen[a.ShiftCode] {
			continue
		}
		seen[a.ShiftCode] = true
		codes = append(codes, a.ShiftCode)
	}
	sort.Strings(codes)
	return codes
}
