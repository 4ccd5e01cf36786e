package transitory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReport_Tables(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	r, err := e.Reconcile(mayLedger())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	tables := r.Tables()

	var names []string
	rows := make(map[string]int)
	for _, tb := range tables {
		names = append(names, tb.Name)
		rows[tb.Name] = len(tb.Rows)
		for i, row := range tb.Rows {
			if len(row) != len(tb.Header) {
				t.Errorf("%s row %d has %d values, want %d", tb.Name, i, len(row), len(tb.Header))
			}
		}
	}
	wantNames := []string{
		TableMonthlySummary, TableDailyTotals, TableUnbalancedDays,
		TableMonthlyNoteTotals, TableNoteDayDifferences, TableResponsibleTransactions,
	}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("table names mismatch (-want +got):\n%s", diff)
	}
	wantRows := map[string]int{
		TableMonthlySummary:          1,
		TableDailyTotals:             3,
		TableUnbalancedDays:          1,
		TableMonthlyNoteTotals:       5,
		TableNoteDayDifferences:      2,
		TableResponsibleTransactions: 2,
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("row counts mismatch (-want +got):\n%s", diff)
	}

	responsible := tables[5]
	wantHeader := []string{"Day", "Lote", "Data", "Histórico", "NoteID", "Debit", "Credit", "Value", "NoteDayDifference", "NoCounterpart"}
	if diff := cmp.Diff(wantHeader, responsible.Header); diff != "" {
		t.Errorf("ResponsibleTransactions header mismatch (-want +got):\n%s", diff)
	}
}

func TestReport_Tables_WithoutBatch(t *testing.T) {
	r := Assemble(nil, Aggregate(nil, DefaultEpsilon), nil, DefaultEpsilon)
	r.Columns = map[Field]string{FieldDate: "Data", FieldHist: "Histórico", FieldDebit: "Débito", FieldCredit: "Crédito"}
	tables := r.Tables()
	if len(tables) != 6 {
		t.Fatalf("len(Tables()) = %d, want 6", len(tables))
	}
	for _, h := range tables[5].Header {
		if h == "Lote" {
			t.Errorf("ResponsibleTransactions header %v has a batch column", tables[5].Header)
		}
	}
	if !r.Balanced() || !r.Period.IsZero() {
		t.Errorf("empty report: Balanced() = %v, Period = %v; want balanced with no period", r.Balanced(), r.Period)
	}
}

func TestAssemble_Order(t *testing.T) {
	txs := []Transaction{
		tx("2024-05-03", "B", 0, 10),
		tx("2024-05-03", "A", 40, 0),
		tx("2024-05-02", "C", 5, 0),
		tx("2024-05-03", "D", 0, 30),
		tx("2024-05-03", "D", 30, 0),
	}
	agg := Aggregate(txs, DefaultEpsilon)
	attributions := AttributeDays(agg, DefaultEpsilon)
	r := Assemble(txs, agg, attributions, DefaultEpsilon)

	var got []string
	for _, nd := range r.NoteDayDifferences {
		got = append(got, nd.Day.String()+" "+nd.NoteID)
	}
	// D balances and is left out.
	want := []string{"2024-05-02 C", "2024-05-03 A", "2024-05-03 B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NoteDayDifferences mismatch (-want +got):\n%s", diff)
	}

	got = nil
	for _, rt := range r.ResponsibleTransactions {
		got = append(got, rt.Day().String()+" "+rt.NoteID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResponsibleTransactions mismatch (-want +got):\n%s", diff)
	}
}
