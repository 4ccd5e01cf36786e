package transitory

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// mayLedger is a small extract of a clearing account for May 2024.
//
//   - 02/05 balances: NF 1001 is paid and received.
//   - 03/05 is off by 350,00: NF 2002 was never paid, doc 3003/1 was never
//     received, and NF 4004 balances.
//   - 06/05 balances within a cent.
func mayLedger() Grid {
	return ledgerGrid(
		[]string{"02/05/2024", "L1", "Recebimento NF 1001", "1.500,00", "", ""},
		[]string{"", "", "cliente ACME ref 02/05/2024", "", "", ""},
		[]string{"02/05/2024", "L1", "Pagamento NF 1001", "", "1.500,00", ""},
		[]string{"03/05/2024", "L2", "Recebimento NF 2002", "400,00", "", ""},
		[]string{"03/05/2024", "L2", "Estorno doc 3003/1", "", "50,00", ""},
		[]string{"03/05/2024", "L2", "Recebimento NF 4004", "120,00", "", ""},
		[]string{"03/05/2024", "L3", "Pagamento NF 4004", "", "120,00", ""},
		[]string{"04/05/2024", "", "Saldo do dia", "", "", ""},
		[]string{"06/05/2024", "L4", "Tarifa bancária", "10,005", "", ""},
		[]string{"06/05/2024", "L4", "Tarifa bancária", "", "10,00", ""},
	)
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	e, err := NewEngine(cfg, zerolog.New(buf).Level(zerolog.DebugLevel))
	if err != nil {
		t.Fatalf("NewEngine() unexpected error: %v", err)
	}
	return e, buf
}

func TestEngine_Transactions(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	schema, txs, err := e.Transactions(mayLedger())
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	if schema.HeaderRow != 3 {
		t.Errorf("HeaderRow = %d, want 3", schema.HeaderRow)
	}
	if len(txs) != 8 {
		t.Fatalf("len(Transactions()) = %d, want 8", len(txs))
	}
	if got, want := txs[0].Narration, "Recebimento NF 1001 | cliente ACME ref 02/05/2024"; got != want {
		t.Errorf("Narration = %q, want %q", got, want)
	}
	var notes []string
	for _, tx := range txs {
		notes = append(notes, tx.NoteID)
	}
	want := []string{"1001", "1001", "2002", "3003/1", "4004", "4004", NoNote, NoNote}
	if diff := cmp.Diff(want, notes); diff != "" {
		t.Errorf("note ids mismatch (-want +got):\n%s", diff)
	}
	if txs[2].Batch != "L2" {
		t.Errorf("Batch = %q, want %q", txs[2].Batch, "L2")
	}
}

func TestEngine_FirstNoteOnly(t *testing.T) {
	g := ledgerGrid([]string{"02/05/2024", "L1", "doc 4521/02 outros 98765", "10,00", "", ""})
	testCases := []struct {
		firstOnly bool
		want      []string
	}{
		{firstOnly: true, want: []string{"4521/02"}},
		{firstOnly: false, want: []string{"4521/02", "98765"}},
	}
	for _, tc := range testCases {
		cfg := DefaultConfig()
		cfg.FirstNoteOnly = tc.firstOnly
		e, _ := newTestEngine(t, cfg)
		_, txs, err := e.Transactions(g)
		if err != nil {
			t.Fatalf("Transactions() unexpected error: %v", err)
		}
		if diff := cmp.Diff(tc.want, txs[0].NoteIDs); diff != "" {
			t.Errorf("firstOnly=%v: NoteIDs mismatch (-want +got):\n%s", tc.firstOnly, diff)
		}
		if got := txs[0].NoteID; got != "4521/02" {
			t.Errorf("firstOnly=%v: NoteID = %q, want %q", tc.firstOnly, got, "4521/02")
		}
	}
}

func TestEngine_Reconcile(t *testing.T) {
	e, logs := newTestEngine(t, DefaultConfig())
	r, err := e.Reconcile(mayLedger())
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}

	if r.RunID == "" {
		t.Error("RunID is empty")
	}
	if got, want := r.Period.Identifier(), "2024-05"; got != want {
		t.Errorf("Period.Identifier() = %q, want %q", got, want)
	}
	if diff := cmp.Diff(map[Field]string{
		FieldDate: "Data", FieldBatch: "Lote", FieldHist: "Histórico", FieldDebit: "Débito", FieldCredit: "Crédito",
	}, r.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}

	if r.Balanced() {
		t.Fatal("Balanced() = true, want false")
	}
	if len(r.DailyTotals) != 3 {
		t.Errorf("len(DailyTotals) = %d, want 3", len(r.DailyTotals))
	}
	if len(r.UnbalancedDays) != 1 || r.UnbalancedDays[0].Day != day("2024-05-03") {
		t.Fatalf("UnbalancedDays = %v, want 2024-05-03 only", r.UnbalancedDays)
	}
	if !r.UnbalancedDays[0].Difference.Equal(D(350)) {
		t.Errorf("difference of 2024-05-03 = %v, want 350", r.UnbalancedDays[0].Difference)
	}

	a, ok := r.Attribution(day("2024-05-03"))
	if !ok {
		t.Fatal("Attribution(2024-05-03) not found")
	}
	if a.Method != Exact {
		t.Errorf("Method = %v, want %v", a.Method, Exact)
	}
	if diff := cmp.Diff([]string{"2002", "3003/1"}, a.NoteIDs); diff != "" {
		t.Errorf("NoteIDs mismatch (-want +got):\n%s", diff)
	}

	var noteDays []string
	for _, nd := range r.NoteDayDifferences {
		flag := ""
		if nd.Responsible {
			flag = "*"
		}
		noteDays = append(noteDays, nd.NoteID+flag)
	}
	if diff := cmp.Diff([]string{"2002*", "3003/1*"}, noteDays); diff != "" {
		t.Errorf("NoteDayDifferences mismatch (-want +got):\n%s", diff)
	}

	if len(r.ResponsibleTransactions) != 2 {
		t.Fatalf("len(ResponsibleTransactions) = %d, want 2", len(r.ResponsibleTransactions))
	}
	for _, rt := range r.ResponsibleTransactions {
		if !rt.NoCounterpart {
			t.Errorf("%s: NoCounterpart = false, want true", rt.NoteID)
		}
		if !rt.NoteDayDifference.Equal(rt.Value()) {
			t.Errorf("%s: NoteDayDifference = %v, want %v", rt.NoteID, rt.NoteDayDifference, rt.Value())
		}
	}

	if !strings.Contains(logs.String(), `"message":"unbalanced day"`) {
		t.Errorf("logs do not report the unbalanced day:\n%s", logs)
	}
}

func TestEngine_Reconcile_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		grid  Grid
		check func(error) bool
	}{
		{
			name:  "no header",
			grid:  TextGrid([]string{"foo", "bar"}, []string{"1", "2"}),
			check: func(err error) bool { var e *SchemaError; return errors.As(err, &e) },
		},
		{
			name:  "missing credit column",
			grid:  TextGrid([]string{"Data", "Histórico", "Débito"}, []string{"02/05/2024", "a", "1"}),
			check: func(err error) bool { var e *SchemaError; return errors.As(err, &e) && len(e.Missing) == 1 },
		},
		{
			name:  "empty",
			grid:  ledgerGrid(),
			check: func(err error) bool { var e *EmptyLedgerError; return errors.As(err, &e) },
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, DefaultConfig())
			r, err := e.Reconcile(tc.grid)
			if r != nil || !tc.check(err) {
				t.Errorf("Reconcile() = %v, %v; want a typed error", r, err)
			}
		})
	}
}

func TestEngine_OrphanWarning(t *testing.T) {
	e, logs := newTestEngine(t, DefaultConfig())
	g := ledgerGrid(
		[]string{"", "", "saldo anterior", "", "", ""},
		[]string{"02/05/2024", "", "a", "1,00", "1,00", ""},
	)
	if _, err := e.Reconcile(g); err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "saldo anterior") {
		t.Errorf("orphan row not reported in the logs:\n%s", logs)
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Aliases[FieldDebit] = nil
	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() without debit aliases: expected an error")
	}
}

// Reconciling the transactions of a balanced report yields a balanced report.
func TestReconcile_RoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	_, txs, err := e.Transactions(mayLedger())
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}

	// post the missing counterparts so that every day balances.
	balanced := append(txs,
		Transaction{Date: day("2024-05-03"), Narration: "Pagamento NF 2002", Credit: A(400)},
		Transaction{Date: day("2024-05-03"), Narration: "Recebimento doc 3003/1", Debit: A(50)},
	)
	first, err := e.Reconcile(LedgerGrid(balanced))
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if !first.Balanced() {
		t.Fatalf("UnbalancedDays = %v, want none", first.UnbalancedDays)
	}

	_, again, err := e.Transactions(LedgerGrid(balanced))
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	second, err := e.Reconcile(LedgerGrid(again))
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if len(second.UnbalancedDays) != 0 || len(second.Attributions) != 0 {
		t.Errorf("second run: UnbalancedDays = %v, Attributions = %v, want none", second.UnbalancedDays, second.Attributions)
	}
	if len(again) != len(balanced) {
		t.Errorf("second run has %d transactions, want %d", len(again), len(balanced))
	}
}
