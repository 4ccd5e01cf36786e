package transitory

import (
	"regexp"
	"strings"

	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
)

var notAmountChars = regexp.MustCompile(`[^\d,.\-]`)

// ParseAmount parses a locale formatted amount.
//
// Number cells are used as is. Text is stripped of everything but digits,
// commas, periods and minus signs; a comma after the last period is the
// decimal separator (periods are then thousands separators), and so is a
// lone comma. Empty or unparsable values are Missing.
func ParseAmount(c Cell) Amount {
	if v, ok := c.Decimal(); ok {
		return A(v)
	}
	s := strings.TrimSpace(c.String())
	if s == "" {
		return Missing
	}
	s = notAmountChars.ReplaceAllString(s, "")
	hasComma, hasPeriod := strings.Contains(s, ","), strings.Contains(s, ".")
	switch {
	case hasComma && hasPeriod && strings.LastIndex(s, ",") > strings.LastIndex(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma && !hasPeriod:
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Missing
	}
	return A(v)
}

// ParseDate parses a ledger date: day-first or ISO text, or a spreadsheet
// serial number. The second result is false for empty or unparsable cells.
func ParseDate(c Cell) (date.Date, bool) {
	if c.IsEmpty() {
		return date.Date{}, false
	}
	if d, err := date.ParseLedger(c.String()); err == nil {
		return d, true
	}
	if v, ok := c.Decimal(); ok {
		return date.FromSerial(v.InexactFloat64())
	}
	return date.Date{}, false
}

// Normalize converts consolidated entries into transactions. Entries with an
// unparsable date, and entries with neither debit nor credit, are dropped.
func Normalize(entries []Entry, cols ColumnMap) (txs []Transaction, dropped int) {
	for _, e := range entries {
		day, ok := ParseDate(cols.Cell(e.Cells, FieldDate))
		if !ok {
			dropped++
			continue
		}
		tx := Transaction{
			Row:       e.Row,
			Date:      day,
			Narration: e.Narration,
			Batch:     strings.TrimSpace(cols.Cell(e.Cells, FieldBatch).String()),
			Debit:     ParseAmount(cols.Cell(e.Cells, FieldDebit)),
			Credit:    ParseAmount(cols.Cell(e.Cells, FieldCredit)),
		}
		if tx.Debit.IsZero() && tx.Credit.IsZero() {
			dropped++
			continue
		}
		txs = append(txs, tx)
	}
	return txs, dropped
}
