package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/transitory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func TestMoney_Format(t *testing.T) {
	testCases := []struct {
		currency string
		value    string
		want     string
	}{
		{currency: "BRL", value: "1500", want: "R$1.500,00"},
		{currency: "BRL", value: "-50.01", want: "-R$50,01"},
		{currency: "USD", value: "1234567.891", want: "$1,234,567.89"},
		{currency: "", value: "12", want: "12.00"},
		{currency: "ZZZ", value: "12", want: "12.00 ZZZ"},
	}
	for _, tc := range testCases {
		m := NewMoney(tc.currency)
		if got := m.Format(decimal.RequireFromString(tc.value)); got != tc.want {
			t.Errorf("NewMoney(%q).Format(%s) = %q, want %q", tc.currency, tc.value, got, tc.want)
		}
	}
}

func TestMoney_Signed(t *testing.T) {
	m := NewMoney("USD")
	testCases := []struct {
		value string
		want  string
	}{
		{value: "0", want: "-"},
		{value: "3", want: "+$3.00"},
		{value: "-3", want: "-$3.00"},
	}
	for _, tc := range testCases {
		if got := m.Signed(decimal.RequireFromString(tc.value)); got != tc.want {
			t.Errorf("Signed(%s) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

// outline parses markdown and returns its headings and the number of rows of
// each of its tables.
func outline(t *testing.T, md string) (headings []string, tables []int) {
	t.Helper()
	source := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			headings = append(headings, string(n.Text(source)))
		case *extast.Table:
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*extast.TableRow); ok {
					rows++
				}
			}
			tables = append(tables, rows)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("ast.Walk() unexpected error: %v", err)
	}
	return headings, tables
}

func reconcile(t *testing.T, rows ...[]string) *transitory.Report {
	t.Helper()
	e, err := transitory.NewEngine(transitory.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() unexpected error: %v", err)
	}
	g := transitory.TextGrid(append([][]string{{"Data", "Histórico", "Débito", "Crédito"}}, rows...)...)
	r, err := e.Reconcile(g)
	if err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	return r
}

func TestReportMarkdown(t *testing.T) {
	r := reconcile(t,
		[]string{"02/05/2024", "Recebimento NF 1001", "1.500,00", ""},
		[]string{"02/05/2024", "Pagamento NF 1001", "", "1.500,00"},
		[]string{"03/05/2024", "Recebimento NF 2002", "400,00", ""},
		[]string{"03/05/2024", "Estorno doc 3003/1", "", "50,00"},
		[]string{"04/05/2024", "Tarifa | agência 1234", "12,00", ""},
	)
	md := ReportMarkdown(r, "BRL")

	headings, tables := outline(t, md)
	wantHeadings := []string{"Reconciliation 2024-05", "Monthly Summary", "Unbalanced Days", "Responsible Notes", "2024-05-03", "2024-05-04"}
	if strings.Join(headings, "\n") != strings.Join(wantHeadings, "\n") {
		t.Errorf("headings = %q, want %q", headings, wantHeadings)
	}
	// summary, unbalanced days, one table of notes per day.
	wantTables := []int{1, 2, 2, 1}
	if len(tables) != len(wantTables) {
		t.Fatalf("tables = %v, want %v", tables, wantTables)
	}
	for i := range tables {
		if tables[i] != wantTables[i] {
			t.Errorf("table %d has %d rows, want %d", i, tables[i], wantTables[i])
		}
	}

	for _, want := range []string{"+R$350,00", "`3003/1` -R$50,00", `Tarifa \| agência 1234`} {
		if !strings.Contains(md, want) {
			t.Errorf("ReportMarkdown() does not contain %q:\n%s", want, md)
		}
	}
}

func TestReportMarkdown_Balanced(t *testing.T) {
	r := reconcile(t,
		[]string{"02/05/2024", "Recebimento NF 1001", "1.500,00", ""},
		[]string{"02/05/2024", "Pagamento NF 1001", "", "1.500,00"},
	)
	md := ReportMarkdown(r, "BRL")
	headings, _ := outline(t, md)
	if len(headings) != 2 {
		t.Errorf("headings = %q, want the title and the summary only", headings)
	}
	if !strings.Contains(md, "All 1 days are balanced.") {
		t.Errorf("ReportMarkdown() does not report the balanced days:\n%s", md)
	}
}

func TestSchemaMarkdown(t *testing.T) {
	e, err := transitory.NewEngine(transitory.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() unexpected error: %v", err)
	}
	g := transitory.TextGrid(
		[]string{"Razão"},
		[]string{"Data", "Histórico", "Débito", "Crédito"},
		[]string{"02/05/2024", "NF 1", "1,00", ""},
		[]string{"02/05/2024", "NF 2", "", "1,00"},
		[]string{"03/05/2024", "NF 3", "1,00", ""},
	)
	s, txs, err := e.Transactions(g)
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	md := SchemaMarkdown(s, txs, 2)
	_, tables := outline(t, md)
	if len(tables) != 2 || tables[0] != len(transitory.Fields) || tables[1] != 2 {
		t.Errorf("tables = %v, want [%d 2]", tables, len(transitory.Fields))
	}
	for _, want := range []string{"row 2", "| batch | - |", "1 more transactions."} {
		if !strings.Contains(md, want) {
			t.Errorf("SchemaMarkdown() does not contain %q:\n%s", want, md)
		}
	}
}

func TestNotesMarkdown(t *testing.T) {
	x := transitory.NewNoteExtractor(transitory.DefaultInvoiceMarkers, false)
	md := NotesMarkdown([]string{"doc 4521/02 outros 001", "Tarifa"}, x)
	for _, want := range []string{"`4521/02`, `1`", "| Tarifa | NO_NOTE |"} {
		if !strings.Contains(md, want) {
			t.Errorf("NotesMarkdown() does not contain %q:\n%s", want, md)
		}
	}
}
