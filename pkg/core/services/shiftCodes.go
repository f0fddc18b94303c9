package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

// ErrDuplicateShiftCode is returned when creating a code that already exists
var ErrDuplicateShiftCode = errors.New("shift code already exists")

// DefaultShiftCodeColor is used when no color is given
const DefaultShiftCodeColor = "#2d8b4d"

// ShiftCodeInput is a shift code as entered by an administrator.
// An empty ID creates a new code.
type ShiftCodeInput struct {
	ID           string
	Code         string `validate:"required,alphanum,max=10"`
	Name         string `validate:"required"`
	IsRest       bool
	StartTime    string `validate:"omitempty,clock"`
	EndTime      string `validate:"omitempty,clock"`
	Color        string `validate:"omitempty,rgbcolor"`
	DisplayOrder int    `validate:"min=0"`
}

// ShiftCodeSource reads shift code definitions from a spreadsheet
type ShiftCodeSource interface {
	ListShiftCodes(spreadsheetID, tab string) ([]db.ShiftCode, error)
}

// SeedResult counts the codes created and updated by SeedShiftCodes
type SeedResult struct {
	Created int
	Updated int
}

// ListShiftCodes returns shift codes in display order. Retired codes are
// included only when includeRetired is set.
func ListShiftCodes(ctx context.Context, store db.ShiftCodeStore, includeRetired bool) ([]db.ShiftCode, error) {
	codes, err := store.GetShiftCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift codes: %w", err)
	}

	result := make([]db.ShiftCode, 0, len(codes))
	for _, sc := range codes {
		if sc.Status != model.ShiftCodeActive && !includeRetired {
			continue
		}
		result = append(result, sc)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].Code < result[j].Code
	})

	return result, nil
}

// SaveShiftCode creates or updates a shift code. The code of an existing
// entry cannot be changed because imported rosters refer to it.
func SaveShiftCode(ctx context.Context, store db.ShiftCodeStore, logger *zap.Logger, input ShiftCodeInput) (*db.ShiftCode, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	input.Name = strings.TrimSpace(input.Name)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	input.Color = strings.TrimSpace(input.Color)

	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid shift code: %w", err)
	}

	sc := db.ShiftCode{
		ID:           input.ID,
		Code:         input.Code,
		Name:         input.Name,
		IsRest:       input.IsRest,
		StartTime:    normalizeClock(input.StartTime),
		EndTime:      normalizeClock(input.EndTime),
		Color:        input.Color,
		Status:       model.ShiftCodeActive,
		DisplayOrder: input.DisplayOrder,
	}
	if sc.IsRest {
		sc.StartTime, sc.EndTime = "", ""
	}
	if sc.Color == "" {
		sc.Color = DefaultShiftCodeColor
	}

	existing, err := store.GetShiftCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift codes: %w", err)
	}

	if sc.ID == "" {
		for _, e := range existing {
			if strings.EqualFold(e.Code, sc.Code) {
				return nil, fmt.Errorf("%s: %w", sc.Code, ErrDuplicateShiftCode)
			}
		}

		sc.ID = uuid.New().String()
		if err := store.InsertShiftCode(ctx, &sc); err != nil {
			if errors.Is(err, db.ErrConflict) {
				return nil, fmt.Errorf("%s: %w", sc.Code, ErrDuplicateShiftCode)
			}
			return nil, fmt.Errorf("failed to insert shift code: %w", err)
		}

		logger.Info("Shift code created", zap.String("code", sc.Code), zap.String("id", sc.ID))
		return &sc, nil
	}

	current := findShiftCode(existing, sc.ID)
	if current == nil {
		return nil, fmt.Errorf("shift code %s: %w", sc.ID, db.ErrNotFound)
	}
	if current.Code != sc.Code {
		return nil, fmt.Errorf("shift code %s cannot be renamed to %s", current.Code, sc.Code)
	}
	sc.Status = current.Status

	if err := store.UpdateShiftCode(ctx, &sc); err != nil {
		return nil, fmt.Errorf("failed to update shift code: %w", err)
	}

	logger.Info("Shift code updated", zap.String("code", sc.Code), zap.String("id", sc.ID))
	return &sc, nil
}

// RetireShiftCode hides a shift code from future imports. Entries already
// imported with it are kept.
func RetireShiftCode(ctx context.Context, store db.ShiftCodeStore, logger *zap.Logger, id string) error {
	if err := store.SetShiftCodeStatus(ctx, id, model.ShiftCodeRetired); err != nil {
		return fmt.Errorf("failed to retire shift code: %w", err)
	}
	logger.Info("Shift code retired", zap.String("id", id))
	return nil
}

// SeedShiftCodes saves every shift code listed in a spreadsheet tab.
// Codes that already exist are updated and reactivated.
func SeedShiftCodes(
	ctx context.Context,
	store db.ShiftCodeStore,
	source ShiftCodeSource,
	logger *zap.Logger,
	spreadsheetID string,
	tab string,
) (*SeedResult, error) {
	rows, err := source.ListShiftCodes(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift code sheet: %w", err)
	}

	existing, err := store.GetShiftCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift codes: %w", err)
	}
	byCode := make(map[string]db.ShiftCode, len(existing))
	for _, sc := range existing {
		byCode[strings.ToUpper(sc.Code)] = sc
	}

	result := &SeedResult{}
	for _, row := range rows {
		input := ShiftCodeInput{
			Code:         row.Code,
			Name:         row.Name,
			IsRest:       row.IsRest,
			StartTime:    row.StartTime,
			EndTime:      row.EndTime,
			Color:        row.Color,
			DisplayOrder: row.DisplayOrder,
		}

		current, exists := byCode[strings.ToUpper(strings.TrimSpace(row.Code))]
		if exists {
			input.ID = current.ID
		}

		saved, err := SaveShiftCode(ctx, store, logger, input)
		if err != nil {
			return result, fmt.Errorf("failed to save shift code %s: %w", row.Code, err)
		}

		if !exists {
			result.Created++
			continue
		}
		if current.Status != model.ShiftCodeActive {
			if err := store.SetShiftCodeStatus(ctx, saved.ID, model.ShiftCodeActive); err != nil {
				return result, fmt.Errorf("failed to reactivate shift code %s: %w", saved.Code, err)
			}
		}
		result.Updated++
	}

	logger.Info("Shift codes seeded", zap.Int("created", result.Created), zap.Int("updated", result.Updated))
	return result, nil
}

func findShiftCode(codes []db.ShiftCode, id string) *db.ShiftCode {
	for i := range codes {
		if codes[i].ID == id {
			return &codes[i]
		}
	}
	return nil
}

// normalizeClock turns "8:00" or "08:00" into "08:00:00"
func normalizeClock(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return s
}
