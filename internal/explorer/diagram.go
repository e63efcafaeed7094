package explorer

import "ipxplorer/internal/models"

// RowBits is the width of one row of the header diagram.
const RowBits = 32

// DiagramCell is the part of a field that falls into one diagram row.
type DiagramCell struct {
	Field       string `json:"field"`
	Bits        int    `json:"bits"`
	Variable    bool   `json:"variable,omitempty"`
	Continued   bool   `json:"continued,omitempty"`
	Highlighted bool   `json:"highlighted"`
}

// DiagramRow is one 32-bit word of the header.
type DiagramRow struct {
	Offset int           `json:"offset"` // in bits
	Cells  []DiagramCell `json:"cells"`
}

// Layout packs fields into 32-bit rows in header order. Fields wider than
// the space left in a row continue on the next one. Variable-width fields
// take a full row of their own.
func Layout(fields []models.HeaderField) []DiagramRow {
	var (
		rows   []DiagramRow
		cur    DiagramRow
		used   int
		offset int
	)
	flush := func() {
		if len(cur.Cells) > 0 {
			rows = append(rows, cur)
		}
		offset += RowBits
		cur = DiagramRow{Offset: offset}
		used = 0
	}

	for _, f := range fields {
		if f.Bits == 0 {
			if used > 0 {
				flush()
			}
			cur.Cells = append(cur.Cells, DiagramCell{Field: f.Name, Bits: RowBits, Variable: true})
			flush()
			continue
		}
		remaining := f.Bits
		first := true
		for remaining > 0 {
			take := RowBits - used
			if remaining < take {
				take = remaining
			}
			cur.Cells = append(cur.Cells, DiagramCell{Field: f.Name, Bits: take, Continued: !first})
			used += take
			remaining -= take
			first = false
			if used == RowBits {
				flush()
			}
		}
	}
	if used > 0 {
		rows = append(rows, cur)
	}
	return rows
}
