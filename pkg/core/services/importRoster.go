package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/core/roster"
	"github.com/carabineros/intranet/pkg/db"
)

// ErrTooFewRows is returned for a grid without a header row and at least one badge row
var ErrTooFewRows = errors.New("the roster must have at least 2 rows")

// ImportRosterResult summarises a completed roster import
type ImportRosterResult struct {
	Assignments    int
	Reconciliation *roster.Reconciliation
	Replace        *roster.ReplaceResult
}

// RosterPreview describes what an import would write without touching the store
type RosterPreview struct {
	Assignments int
	Badges      []string
	Dates       []string
	Sample      []roster.Assignment
}

// PreviewRoster extracts a grid and returns counts plus the first sampleSize assignments
func PreviewRoster(grid [][]roster.Cell, sampleSize int) (*RosterPreview, error) {
	if len(grid) < 2 {
		return nil, ErrTooFewRows
	}

	assignments := roster.Extract(grid)

	badges := make(map[string]bool)
	dates := make(map[string]bool)
	for _, a := range assignments {
		badges[a.Badge] = true
		dates[a.Date] = true
	}

	if sampleSize > len(assignments) {
		sampleSize = len(assignments)
	}

	return &RosterPreview{
		Assignments: len(assignments),
		Badges:      sortedSet(badges),
		Dates:       sortedSet(dates),
		Sample:      assignments[:sampleSize],
	}, nil
}

// ImportRoster reconciles a roster grid against the shift code catalog and the
// account directory and writes it with a scoped replace.
//
// Unknown codes, unlinked badges and duplicate cells are logged as warnings.
// When nothing valid remains the import is rejected with a
// *roster.RejectedImportError before any write. A failing write batch aborts
// the import with a *roster.BatchError; earlier batches stay applied and a
// rerun of the same grid is safe.
func ImportRoster(
	ctx context.Context,
	store db.RosterImportStore,
	logger *zap.Logger,
	grid [][]roster.Cell,
	opts roster.ReplaceOptions,
) (*ImportRosterResult, error) {
	if len(grid) < 2 {
		return nil, ErrTooFewRows
	}

	logger.Debug("Starting roster import", zap.Int("rows", len(grid)))

	assignments := roster.Extract(grid)
	logger.Debug("Extracted assignments", zap.Int("count", len(assignments)))

	catalog, err := store.GetShiftCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift codes: %w", err)
	}

	directory, err := store.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	result := &ImportRosterResult{Assignments: len(assignments)}

	reconciliation, err := roster.Reconcile(assignments, catalog, directory)
	result.Reconciliation = reconciliation
	if err != nil {
		logger.Warn("Roster import rejected",
			zap.Int("assignments", len(assignments)),
			zap.Strings("unknown_codes", reconciliation.DistinctUnknownCodes()))
		return result, err
	}

	logReconciliationWarnings(logger, reconciliation)

	for i := range reconciliation.ToUpsert {
		reconciliation.ToUpsert[i].ID = uuid.New().String()
	}

	replace, err := roster.ScopedReplace(ctx, store, reconciliation.ToUpsert, opts)
	result.Replace = replace
	if err != nil {
		var batchErr *roster.BatchError
		if errors.As(err, &batchErr) {
			logger.Error("Roster import aborted",
				zap.String("phase", batchErr.Phase),
				zap.Int("batch", batchErr.Index),
				zap.Int("upserted", replace.Upserted),
				zap.Error(batchErr.Err))
		}
		return result, fmt.Errorf("failed to write roster: %w", err)
	}

	logger.Info("Roster imported",
		zap.Int("entries", replace.Upserted),
		zap.Int("badges", len(replace.Badges)),
		zap.Int("dates", len(replace.Dates)),
		zap.Int64("replaced", replace.DeletedByBadge+replace.DeletedByUser))

	return result, nil
}

func logReconciliationWarnings(logger *zap.Logger, r *roster.Reconciliation) {
	if len(r.UnknownCodes) > 0 {
		logger.Warn("Skipped assignments with unknown shift codes",
			zap.Int("count", len(r.UnknownCodes)),
			zap.Strings("codes", r.DistinctUnknownCodes()))
	}
	if len(r.UnlinkedBadges) > 0 {
		logger.Warn("Imported entries for badges without an account",
			zap.Strings("badges", r.UnlinkedBadges))
	}
	if len(r.Duplicates) > 0 {
		logger.Warn("Roster has repeated badge and date cells, the last one was kept",
			zap.Int("count", len(r.Duplicates)))
	}
}

func sortedSet(set map[string]bool) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
