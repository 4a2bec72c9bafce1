package exporter

import (
	"strconv"
	"time"
)

// dateFormat renders date cells the way the canonical tables display them.
const dateFormat = "2006-01-02"

// cellValue converts a table cell to its Excel representation. Missing cells
// stay nil so the worksheet cell is left empty.
func cellValue(v any) any {
	switch c := v.(type) {
	case nil:
		return nil
	case time.Time:
		return c.Format(dateFormat)
	default:
		return c
	}
}

// cellString converts a table cell to its CSV representation.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return c.Format(dateFormat)
	default:
		return ""
	}
}
