package dataprocessing

import "strings"

// NormalizeColumn canonicalizes a raw column label: lowercase, surrounding
// whitespace trimmed, internal whitespace runs collapsed to a single
// underscore, every character outside [a-z0-9_] stripped, repeated
// underscores collapsed, leading/trailing underscores removed.
//
// Total and idempotent: normalizing an already-canonical name returns it
// unchanged, and no input fails.
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		var c byte
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' || r == '_':
			c = '_'
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			c = byte(r)
		default:
			continue
		}
		if c == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteByte(c)
	}
	return strings.Trim(b.String(), "_")
}

// NormalizeColumns returns a copy of the table with every column label passed
// through NormalizeColumn. When two labels normalize to the same name the
// rightmost column in the original order wins.
func NormalizeColumns(t Table) Table {
	return ApplyAliases(t, nil)
}

// ApplyAliases normalizes every column label and renames columns whose
// normalized form matches a normalized alias key to the alias value.
// Columns without a matching alias keep their normalized name.
//
// Collisions (two original columns mapping to the same canonical name)
// resolve last-write-wins: the rightmost column in the original order keeps
// the name and its values replace the earlier column's values row by row.
func ApplyAliases(t Table, aliases map[string]string) Table {
	rename := make(map[string]string, len(aliases))
	for k, v := range aliases {
		rename[NormalizeColumn(k)] = NormalizeColumn(v)
	}

	finalName := func(raw string) string {
		name := NormalizeColumn(raw)
		if canonical, ok := rename[name]; ok {
			return canonical
		}
		return name
	}

	out := Table{}
	for _, raw := range t.Columns {
		out.AddColumn(finalName(raw))
	}

	out.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		dup := make(Row, len(row))
		// Walk columns in declared order so later columns overwrite earlier
		// ones on a name collision, even when the later cell is absent from
		// the row map (an absent cell reads as nil).
		for _, raw := range t.Columns {
			dup[finalName(raw)] = row[raw]
		}
		out.Rows[i] = dup
	}
	return out
}
