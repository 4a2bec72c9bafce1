package dataprocessing

import (
	"strings"
	"time"
)

// dateLayouts are tried in order by CoerceDate. ISO forms first, then the
// day-first forms common in Latin-American exports, then month-name forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// collapseSpaces trims and collapses internal whitespace runs to one space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanText trims and whitespace-collapses every text cell of the column,
// upper-casing when upper is set. Missing cells stay missing rather than
// being stringified. Absent column is a no-op.
func CleanText(t Table, col string, upper bool) Table {
	if !t.HasColumn(col) {
		return t
	}
	out := t.Clone()
	for _, row := range out.Rows {
		s, ok := row[col].(string)
		if !ok {
			continue
		}
		s = collapseSpaces(s)
		if upper {
			s = strings.ToUpper(s)
		}
		row[col] = s
	}
	return out
}

// ParseDate attempts to parse text as a calendar date using the permissive
// layout list. The second return value is false when nothing matches.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CoerceDate converts every cell of the column to a time.Time. Unparseable,
// empty or missing cells become nil. Absent column is a no-op.
func CoerceDate(t Table, col string) Table {
	if !t.HasColumn(col) {
		return t
	}
	out := t.Clone()
	for _, row := range out.Rows {
		switch v := row[col].(type) {
		case time.Time:
			// already a date
		case string:
			if ts, ok := ParseDate(v); ok {
				row[col] = ts
			} else {
				row[col] = nil
			}
		default:
			row[col] = nil
		}
	}
	return out
}
