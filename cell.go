package transitory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CellKind tells what a Cell holds.
type CellKind int

const (
	EmptyCell CellKind = iota
	TextCell
	NumberCell
)

// Cell is a single value of a raw grid: empty, text, or a number.
// A number cell keeps the text it was read from.
type Cell struct {
	kind CellKind
	text string
	num  decimal.Decimal
}

// Text returns a text cell. Blank strings give an empty cell.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{kind: TextCell, text: s}
}

// Number returns a number cell.
func Number[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Cell {
	v := newDecimal(value)
	return Cell{kind: NumberCell, text: v.String(), num: v}
}

// Parse classifies a raw string value: blank strings are empty cells,
// plain decimal literals are numbers (keeping their original text), anything
// else is text.
func Parse(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Cell{}
	}
	if v, err := decimal.NewFromString(trimmed); err == nil {
		return Cell{kind: NumberCell, text: s, num: v}
	}
	return Cell{kind: TextCell, text: s}
}

func (c Cell) Kind() CellKind { return c.kind }
func (c Cell) IsEmpty() bool  { return c.kind == EmptyCell }

// IsBlank reports whether the cell is empty or holds only white space.
func (c Cell) IsBlank() bool { return strings.TrimSpace(c.text) == "" }

// Decimal returns the numeric value of a number cell.
func (c Cell) Decimal() (decimal.Decimal, bool) { return c.num, c.kind == NumberCell }

// String returns the cell text, "" for an empty cell.
func (c Cell) String() string { return c.text }

// Row is a row of cells.
type Row []Cell

// IsEmpty reports whether every cell of the row is empty.
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// At returns the cell at column i, or an empty cell when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// Grid is a raw, headerless sequence of rows as read from a spreadsheet.
// Rows may have different lengths.
type Grid []Row

// Width returns the length of the longest row.
func (g Grid) Width() int {
	w := 0
	for _, r := range g {
		w = max(w, len(r))
	}
	return w
}

// TextGrid builds a Grid from string values, using Parse for each cell.
func TextGrid(rows ...[]string) Grid {
	g := make(Grid, 0, len(rows))
	for _, values := range rows {
		r := make(Row, len(values))
		for i, v := range values {
			r[i] = Parse(v)
		}
		g = append(g, r)
	}
	return g
}

// LedgerGrid lays out transactions as a ledger extract: a header row, then
// one row per transaction with a day-first date. The batch column is only
// present when a transaction has a batch.
func LedgerGrid(txs []Transaction) Grid {
	withBatch := false
	for _, tx := range txs {
		if tx.Batch != "" {
			withBatch = true
			break
		}
	}
	header := Row{Text("Data"), Text("Histórico"), Text("Débito"), Text("Crédito")}
	if withBatch {
		header = append(header, Text("Lote"))
	}
	g := Grid{header}
	amount := func(a Amount) Cell {
		if a.IsMissing() {
			return Cell{}
		}
		return Number(a.Decimal())
	}
	for _, tx := range txs {
		r := Row{Text(tx.Date.Format("02/01/2006")), Text(tx.Narration), amount(tx.Debit), amount(tx.Credit)}
		if withBatch {
			r = append(r, Text(tx.Batch))
		}
		g = append(g, r)
	}
	return g
}
