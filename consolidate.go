package transitory

// NarrationSeparator joins the narration lines of a single ledger entry.
const NarrationSeparator = " | "

// Entry is a dated row of the ledger table with its narration consolidated
// from the continuation rows that follow it.
type Entry struct {
	Row       int // index in Table.Rows
	Cells     Row
	Narration string
}

// Consolidate returns one Entry per dated row of t.
//
// Rows without a date but with a narration are continuation lines of the
// nearest dated row above them: their narrations are appended, in order, to
// that row's narration. Continuation rows found before any dated row have
// nothing to attach to and are returned as orphans.
func Consolidate(t *Table, cols ColumnMap) (entries []Entry, orphans []int) {
	anchor := -1 // index in entries
	for i, r := range t.Rows {
		if !cols.Cell(r, FieldDate).IsEmpty() {
			entries = append(entries, Entry{
				Row:       i,
				Cells:     r,
				Narration: cols.Cell(r, FieldHist).String(),
			})
			anchor = len(entries) - 1
			continue
		}
		hist := cols.Cell(r, FieldHist)
		if hist.IsBlank() {
			continue
		}
		if anchor < 0 {
			orphans = append(orphans, i)
			continue
		}
		entries[anchor].Narration = joinNarration(entries[anchor].Narration, hist.String())
	}
	return entries, orphans
}

func joinNarration(base, extra string) string {
	if base == "" {
		return extra
	}
	if extra == "" {
		return base
	}
	return base + NarrationSeparator + extra
}
