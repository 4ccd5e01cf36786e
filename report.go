package transitory

import (
	"sort"

	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
)

// Names of the report tables.
const (
	TableMonthlySummary          = "MonthlySummary"
	TableDailyTotals             = "DailyTotals"
	TableUnbalancedDays          = "UnbalancedDays"
	TableMonthlyNoteTotals       = "MonthlyNoteTotals"
	TableNoteDayDifferences      = "NoteDayDifferences"
	TableResponsibleTransactions = "ResponsibleTransactions"
)

// ResponsibleTransaction is a transaction of a note held responsible for its
// day's imbalance.
type ResponsibleTransaction struct {
	Transaction
	// NoteDayDifference is the difference of the note on that day.
	NoteDayDifference decimal.Decimal
	// NoCounterpart is set when the note has entries on one side only that day.
	NoCounterpart bool
}

// MarshalJSON extends the transaction encoding with the responsibility data.
func (r ResponsibleTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.Transaction)
	w.Append("noteDayDifference", r.NoteDayDifference)
	w.Append("noCounterpart", r.NoCounterpart)
	return w.MarshalJSON()
}

// Report is the outcome of a reconciliation run.
type Report struct {
	RunID  string
	Period date.Range
	// Columns names the source column of each mapped field.
	Columns map[Field]string
	// HeaderRow is the index of the header row in the raw grid.
	HeaderRow int
	// Transactions are the normalized ledger lines the report was built from.
	Transactions []Transaction

	Summary                 Summary
	DailyTotals             []DayTotal
	UnbalancedDays          []DayTotal
	MonthlyNoteTotals       []NoteTotal
	NoteDayDifferences      []NoteDayTotal
	ResponsibleTransactions []ResponsibleTransaction
	Attributions            []Attribution
}

// Balanced reports whether every day of the ledger balances.
func (r *Report) Balanced() bool { return len(r.UnbalancedDays) == 0 }

// Attribution returns the attribution of a day, if the day is unbalanced.
func (r *Report) Attribution(day date.Date) (Attribution, bool) {
	for _, a := range r.Attributions {
		if a.Day == day {
			return a, true
		}
	}
	return Attribution{}, false
}

// Assemble arranges the aggregates and the attributions into a Report.
func Assemble(txs []Transaction, agg *Aggregates, attributions []Attribution, eps decimal.Decimal) *Report {
	r := &Report{
		Transactions:      txs,
		Summary:           agg.Summary,
		DailyTotals:       agg.Days,
		UnbalancedDays:    agg.Unbalanced(),
		MonthlyNoteTotals: agg.Notes,
		Attributions:      attributions,
	}

	days := make([]date.Date, 0, len(agg.Days))
	for _, d := range agg.Days {
		days = append(days, d.Day)
	}
	r.Period = date.NewRange(days...)

	selected := make(map[noteDay]bool)
	for _, a := range attributions {
		for _, n := range a.NoteIDs {
			selected[noteDay{a.Day, n}] = true
		}
	}

	unbalanced := make(map[date.Date]bool, len(r.UnbalancedDays))
	for _, d := range r.UnbalancedDays {
		unbalanced[d.Day] = true
	}
	for _, nd := range agg.NoteDays {
		if !unbalanced[nd.Day] || within(nd.Difference, decimal.Zero, eps) {
			continue
		}
		nd.Responsible = selected[noteDay{nd.Day, nd.NoteID}]
		r.NoteDayDifferences = append(r.NoteDayDifferences, nd)
	}
	sort.SliceStable(r.NoteDayDifferences, func(i, j int) bool {
		a, b := r.NoteDayDifferences[i], r.NoteDayDifferences[j]
		if c := a.Day.Compare(b.Day); c != 0 {
			return c < 0
		}
		return a.Difference.GreaterThan(b.Difference)
	})

	for _, tx := range txs {
		key := noteDay{tx.Day(), tx.NoteID}
		if !selected[key] {
			continue
		}
		nd, _ := agg.NoteDay(key.day, key.note)
		r.ResponsibleTransactions = append(r.ResponsibleTransactions, ResponsibleTransaction{
			Transaction:       tx,
			NoteDayDifference: nd.Difference,
			NoCounterpart:     nd.NoCounterpart(),
		})
	}
	sort.SliceStable(r.ResponsibleTransactions, func(i, j int) bool {
		a, b := r.ResponsibleTransactions[i], r.ResponsibleTransactions[j]
		if c := a.Day().Compare(b.Day()); c != 0 {
			return c < 0
		}
		return a.NoteID < b.NoteID
	})
	return r
}

// OutputTable is a named table handed to a TableWriter. Values are strings,
// bools, decimal.Decimal, date.Date, Amount or nil.
type OutputTable struct {
	Name   string
	Header []string
	Rows   [][]any
}

// TableWriter persists the tables of a report.
type TableWriter interface {
	WriteTables(tables []OutputTable) error
}

// Tables returns the six tables of the report, in their canonical order.
func (r *Report) Tables() []OutputTable {
	summary := OutputTable{
		Name:   TableMonthlySummary,
		Header: []string{"Debit", "Credit", "Value", "Balanced"},
		Rows:   [][]any{{r.Summary.Debit, r.Summary.Credit, r.Summary.Value, r.Summary.Balanced}},
	}

	dayTable := func(name string, days []DayTotal) OutputTable {
		t := OutputTable{Name: name, Header: []string{"Day", "Debit", "Credit", "Difference", "Balanced"}}
		for _, d := range days {
			t.Rows = append(t.Rows, []any{d.Day, d.Debit, d.Credit, d.Difference, d.Balanced})
		}
		return t
	}

	notes := OutputTable{Name: TableMonthlyNoteTotals, Header: []string{"NoteID", "Debit", "Credit", "Difference"}}
	for _, n := range r.MonthlyNoteTotals {
		notes.Rows = append(notes.Rows, []any{n.NoteID, n.Debit, n.Credit, n.Difference})
	}

	noteDays := OutputTable{
		Name:   TableNoteDayDifferences,
		Header: []string{"Day", "NoteID", "Debit", "Credit", "Difference", "ProbablyResponsible"},
	}
	for _, nd := range r.NoteDayDifferences {
		noteDays.Rows = append(noteDays.Rows, []any{nd.Day, nd.NoteID, nd.Debit, nd.Credit, nd.Difference, nd.Responsible})
	}

	_, withBatch := r.Columns[FieldBatch]
	responsible := OutputTable{Name: TableResponsibleTransactions}
	responsible.Header = []string{"Day"}
	if withBatch {
		responsible.Header = append(responsible.Header, r.Columns[FieldBatch])
	}
	responsible.Header = append(responsible.Header,
		r.columnName(FieldDate, "Date"), r.columnName(FieldHist, "Narration"),
		"NoteID", "Debit", "Credit", "Value", "NoteDayDifference", "NoCounterpart")
	for _, tx := range r.ResponsibleTransactions {
		row := []any{tx.Day()}
		if withBatch {
			row = append(row, tx.Batch)
		}
		row = append(row, tx.Date, tx.Narration, tx.NoteID, tx.Debit, tx.Credit, tx.Value(), tx.NoteDayDifference, tx.NoCounterpart)
		responsible.Rows = append(responsible.Rows, row)
	}

	return []OutputTable{
		summary,
		dayTable(TableDailyTotals, r.DailyTotals),
		dayTable(TableUnbalancedDays, r.UnbalancedDays),
		notes,
		noteDays,
		responsible,
	}
}

func (r *Report) columnName(f Field, fallback string) string {
	if c, ok := r.Columns[f]; ok && c != "" {
		return c
	}
	return fallback
}
