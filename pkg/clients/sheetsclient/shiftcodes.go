package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carabineros/intranet/pkg/db"
)

// Column names in the shift code seed sheet
const (
	fieldCode  = "Code"
	fieldName  = "Name"
	fieldRest  = "Rest"
	fieldStart = "Start"
	fieldEnd   = "End"
	fieldColor = "Color"
	fieldOrder = "Order"
)

var requiredShiftCodeFields = []string{fieldCode, fieldName}

var optionalShiftCodeFields = []string{fieldRest, fieldStart, fieldEnd, fieldColor, fieldOrder}

// ListShiftCodes retrieves and parses shift code definitions from a seed tab.
// The returned codes carry no id or status.
func (c *Client) ListShiftCodes(spreadsheetID, tab string) ([]db.ShiftCode, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift code data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	codes, err := parseShiftCodes(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shift codes: %w", err)
	}

	return codes, nil
}

// parseShiftCodes converts raw spreadsheet data into ShiftCode structs
func parseShiftCodes(raw [][]interface{}) ([]db.ShiftCode, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	headerRow := raw[0]
	findField := func(field string) int {
		for i, cell := range headerRow {
			if strings.EqualFold(strings.TrimSpace(fmt.Sprint(cell)), field) {
				return i
			}
		}
		return -1
	}

	for _, field := range requiredShiftCodeFields {
		index := findField(field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalShiftCodeFields {
		if index := findField(field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) || row[index] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[index]))
	}

	codes := make([]db.ShiftCode, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		code := getField(fieldCode, row)
		// Skip empty rows
		if code == "" {
			continue
		}

		order := 0
		if s := getField(fieldOrder, row); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid order %q in row %d", s, i+1)
			}
			order = n
		}

		codes = append(codes, db.ShiftCode{
			Code:         code,
			Name:         getField(fieldName, row),
			IsRest:       parseYes(getField(fieldRest, row)),
			StartTime:    getField(fieldStart, row),
			EndTime:      getField(fieldEnd, row),
			Color:        getField(fieldColor, row),
			DisplayOrder: order,
		})
	}

	return codes, nil
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "si", "sí", "s", "true", "x", "1":
		return true
	default:
		return false
	}
}
