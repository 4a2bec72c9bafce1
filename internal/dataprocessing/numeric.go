package dataprocessing

import (
	"strconv"
	"strings"
)

// ParseNumber converts locale-ambiguous numeric text such as "S/ 1,230.50",
// "1.234,56" or "1234,56" to a float64. The second return value is false when
// the text carries no parseable number.
//
// Heuristic: after stripping everything except digits, minus, comma and
// period, a comma with no period is treated as the decimal separator (any
// periods being thousands marks of a discarded format), a comma alongside a
// period is treated as a thousands separator, and a period alone is kept
// as-is. The period-only case is ambiguous ("1.234" could be thousands) and
// is deliberately left unresolved; downstream consumers rely on it.
func ParseNumber(text string) (float64, bool) {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.TrimSpace(text) {
		switch {
		case r >= '0' && r <= '9', r == '-', r == ',', r == '.':
			b.WriteRune(r)
		}
	}
	s := b.String()

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && !hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CoerceNumber converts every cell of the column to a numeric value in place
// of its textual form. Cells that already hold numbers pass through;
// unparseable or missing cells become nil. Absent column is a no-op.
func CoerceNumber(t Table, col string) Table {
	if !t.HasColumn(col) {
		return t
	}
	out := t.Clone()
	for _, row := range out.Rows {
		switch v := row[col].(type) {
		case float64:
			// already numeric
		case string:
			if f, ok := ParseNumber(v); ok {
				row[col] = f
			} else {
				row[col] = nil
			}
		default:
			row[col] = nil
		}
	}
	return out
}
