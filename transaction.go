package transitory

import (
	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
)

// NoNote is the note id of transactions whose narration names no document.
const NoNote = "NO_NOTE"

// Transaction is a consolidated ledger entry.
type Transaction struct {
	Row       int       // index of the entry in the resolved table
	Date      date.Date // time of day is discarded
	Narration string
	Batch     string
	Debit     Amount
	Credit    Amount
	NoteIDs   []string // notes kept by the extractor, best first; one at most in first-note-only mode
	NoteID    string   // first of NoteIDs, or NoNote
}

// Value returns debit minus credit, missing amounts counting as zero.
func (t Transaction) Value() decimal.Decimal { return t.Debit.Decimal().Sub(t.Credit.Decimal()) }

// Day returns the grouping key of the transaction.
func (t Transaction) Day() date.Date { return t.Date }

// MarshalJSON encodes the transaction with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("day", t.Date)
	w.Append("row", t.Row)
	w.Optional("batch", t.Batch)
	w.Append("narration", t.Narration)
	w.Append("note", t.NoteID)
	if len(t.NoteIDs) > 1 {
		w.Append("notes", t.NoteIDs)
	}
	w.Append("debit", t.Debit)
	w.Append("credit", t.Credit)
	w.Append("value", t.Value())
	return w.MarshalJSON()
}
