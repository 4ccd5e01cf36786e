package renderer

import (
	"github.com/etnz/transitory"
)

// SchemaMarkdown describes how a ledger was understood: the header row, the
// column of each field and a preview of its first transactions.
func SchemaMarkdown(s *transitory.Schema, txs []transitory.Transaction, preview int) string {
	md := newMarkdownRenderer("")

	md.Printf("# Ledger Layout\n\n")
	md.Printf("Header found on row %d, %d data rows.\n\n", s.HeaderRow+1, len(s.Table.Rows))

	md.Printf("| Field | Column |\n")
	md.Printf("|:---|:---|\n")
	for _, f := range transitory.Fields {
		name := s.ColumnName(f)
		if name == "" {
			name = "-"
		}
		md.Printf("| %s | %s |\n", f, cell(name))
	}
	md.Printf("\n")

	if len(txs) == 0 {
		md.Printf("No transaction.\n")
		return md.String()
	}
	md.Printf("## Transactions\n\n")
	md.Printf("| Day | Note | Debit | Credit | Narration |\n")
	md.Printf("|:---|:---|---:|---:|:---|\n")
	for i, t := range txs {
		if preview > 0 && i >= preview {
			break
		}
		md.Printf("| %s | %s | %s | %s | %s |\n", t.Day(), cell(t.NoteID), t.Debit, t.Credit, cell(t.Narration))
	}
	if preview > 0 && len(txs) > preview {
		md.Printf("\n%d more transactions.\n", len(txs)-preview)
	}
	return md.String()
}

// NotesMarkdown lists the note ids found in each narration.
func NotesMarkdown(narrations []string, x *transitory.NoteExtractor) string {
	md := newMarkdownRenderer("")
	md.Printf("| Narration | Notes |\n")
	md.Printf("|:---|:---|\n")
	for _, n := range narrations {
		ids := x.Extract(n)
		notes := transitory.NoNote
		if len(ids) > 0 {
			notes = ""
			for i, id := range ids {
				if i > 0 {
					notes += ", "
				}
				notes += "`" + id + "`"
			}
		}
		md.Printf("| %s | %s |\n", cell(n), notes)
	}
	return md.String()
}
