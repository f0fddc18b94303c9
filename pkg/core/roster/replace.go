package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/carabineros/intranet/pkg/db"
)

const (
	DefaultUpsertBatchSize = 500
	DefaultDeleteBatchSize = 40
)

// Replace phases, reported in BatchError
const (
	PhaseDeleteByBadge = "delete-by-badge"
	PhaseDeleteByUser  = "delete-by-user"
	PhaseUpsert        = "upsert"
)

// ReplaceOptions controls batch sizes of the scoped replace
type ReplaceOptions struct {
	UpsertBatchSize int
	DeleteBatchSize int
}

func (o ReplaceOptions) withDefaults() ReplaceOptions {
	if o.UpsertBatchSize <= 0 {
		o.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if o.DeleteBatchSize <= 0 {
		o.DeleteBatchSize = DefaultDeleteBatchSize
	}
	return o
}

// ReplaceResult summarises the store calls made by ScopedReplace
type ReplaceResult struct {
	Badges         []string
	Dates          []string
	DeletedByBadge int64
	DeletedByUser  int64
	Upserted       int
	UpsertBatches  int
	DeleteBatches  int
}

// BatchError identifies the batch that stopped a replace. Batches before it
// have already been applied.
type BatchError struct {
	Phase string
	Index int // 1-based within the phase
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s batch %d failed: %v", e.Phase, e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// ScopedReplace writes entries so that, for every badge and date they mention,
// the store ends up holding exactly those entries. Entries on other dates are
// not touched.
//
// Existing rows are deleted by raw badge and then by linked account (rows
// written before badges were stored) within the imported dates, and the
// entries are then upserted on (badge_number_raw, date). Batches run in order
// and the first failure aborts the replace.
func ScopedReplace(ctx context.Context, store db.RosterWriter, entries []db.RosterEntry, opts ReplaceOptions) (*ReplaceResult, error) {
	opts = opts.withDefaults()
	result := &ReplaceResult{}

	if len(entries) == 0 {
		return result, nil
	}

	badges, dates, userIDs := scopeOf(entries)
	result.Badges = badges
	result.Dates = dates

	for i, chunk := range chunkStrings(badges, opts.DeleteBatchSize) {
		n, err := store.DeleteRosterEntriesByBadges(ctx, chunk, dates)
		if err != nil {
			return result, &BatchError{Phase: PhaseDeleteByBadge, Index: i + 1, Err: err}
		}
		result.DeletedByBadge += n
		result.DeleteBatches++
	}

	for i, chunk := range chunkStrings(userIDs, opts.DeleteBatchSize) {
		n, err := store.DeleteRosterEntriesByUsers(ctx, chunk, dates)
		if err != nil {
			return result, &BatchError{Phase: PhaseDeleteByUser, Index: i + 1, Err: err}
		}
		result.DeletedByUser += n
		result.DeleteBatches++
	}

	for start, index := 0, 1; start < len(entries); start, index = start+opts.UpsertBatchSize, index+1 {
		end := min(start+opts.UpsertBatchSize, len(entries))
		if err := store.UpsertRosterEntries(ctx, entries[start:end]); err != nil {
			return result, &BatchError{Phase: PhaseUpsert, Index: index, Err: err}
		}
		result.Upserted += end - start
		result.UpsertBatches++
	}

	return result, nil
}

// scopeOf returns the sorted distinct raw badges, dates and linked account ids
func scopeOf(entries []db.RosterEntry) (badges, dates, userIDs []string) {
	badgeSet := make(map[string]bool)
	dateSet := make(map[string]bool)
	userSet := make(map[string]bool)

	for _, e := range entries {
		badgeSet[e.BadgeNumberRaw] = true
		dateSet[e.Date] = true
		if e.Linked() {
			userSet[e.UserID] = true
		}
	}

	return sortedKeys(badgeSet), sortedKeys(dateSet), sortedKeys(userSet)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func chunkStrings(values []string, size int) [][]string {
	chunks := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		chunks = append(chunks, values[start:min(start+size, len(values))])
	}
	return chunks
}
