package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies which variant of Cell is populated
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellDate
	CellBool
	CellUnrecognized
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	case CellBool:
		return "bool"
	default:
		return "unrecognized"
	}
}

// Cell is one decoded spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
	Bool bool
}

func EmptyCell() Cell                { return Cell{Kind: CellEmpty} }
func StringCell(s string) Cell       { return Cell{Kind: CellString, Str: s} }
func NumberCell(n float64) Cell      { return Cell{Kind: CellNumber, Num: n} }
func DateCell(t time.Time) Cell      { return Cell{Kind: CellDate, Time: t} }
func BoolCell(b bool) Cell           { return Cell{Kind: CellBool, Bool: b} }
func UnrecognizedCell(s string) Cell { return Cell{Kind: CellUnrecognized, Str: s} }

// CellFromValue converts a loosely typed value, as returned by the Sheets values API,
// into a Cell
func CellFromValue(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return EmptyCell()
	case string:
		if val == "" {
			return EmptyCell()
		}
		return StringCell(val)
	case float64:
		return NumberCell(val)
	case float32:
		return NumberCell(float64(val))
	case int:
		return NumberCell(float64(val))
	case int64:
		return NumberCell(float64(val))
	case bool:
		return BoolCell(val)
	case time.Time:
		return DateCell(val)
	default:
		return UnrecognizedCell(fmt.Sprintf("%v", val))
	}
}

// Text renders the cell as the text a user would type into it.
// Numbers are printed without a trailing ".0" so that 123 and "123" read the same.
func (c Cell) Text() string {
	switch c.Kind {
	case CellString, CellUnrecognized:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		return c.Time.Format(dateLayout)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// IsBlank reports whether the cell carries no usable text
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Text()) == ""
}
