package dataprocessing

import "time"

// Table is an in-memory table with a stable column order. Cell values are
// string, float64, time.Time, or nil for missing. Rows may omit columns;
// a missing key reads the same as an explicit nil.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row maps canonical column names to cell values.
type Row map[string]any

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether the table declares the column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the declared order if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Clone returns a deep copy so cleaners never mutate their input.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		out.Rows[i] = dup
	}
	return out
}

// String returns the cell as a string value, or "" and false when the cell
// is missing or not text.
func (r Row) String(col string) (string, bool) {
	s, ok := r[col].(string)
	return s, ok
}

// Number returns the cell as a numeric value, or 0 and false when the cell
// is missing or not numeric.
func (r Row) Number(col string) (float64, bool) {
	f, ok := r[col].(float64)
	return f, ok
}

// Time returns the cell as a date value, or the zero time and false when the
// cell is missing or not a date.
func (r Row) Time(col string) (time.Time, bool) {
	ts, ok := r[col].(time.Time)
	return ts, ok
}

// Missing reports whether the cell is absent or nil.
func (r Row) Missing(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}
