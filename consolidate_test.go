package transitory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConsolidate(t *testing.T) {
	cols := ColumnMap{FieldDate: 0, FieldHist: 1, FieldDebit: 2, FieldCredit: 3}
	testCases := []struct {
		name        string
		rows        Grid
		want        []string // narrations
		wantRows    []int
		wantOrphans []int
	}{
		{
			name: "two continuation rows",
			rows: TextGrid(
				[]string{"02/05/2024", "Pagamento fornecedor", "100", ""},
				[]string{"", "NF 123456", "", ""},
				[]string{"", "parcela 1", "", ""},
			),
			want:     []string{"Pagamento fornecedor | NF 123456 | parcela 1"},
			wantRows: []int{0},
		},
		{
			name: "continuations attach to the nearest dated row",
			rows: TextGrid(
				[]string{"02/05/2024", "a", "1", ""},
				[]string{"", "a2", "", ""},
				[]string{"03/05/2024", "b", "", "1"},
				[]string{"", "b2", "", ""},
			),
			want:     []string{"a | a2", "b | b2"},
			wantRows: []int{0, 2},
		},
		{
			name: "empty anchor narration",
			rows: TextGrid(
				[]string{"02/05/2024", "", "1", ""},
				[]string{"", "only continuation", "", ""},
			),
			want:     []string{"only continuation"},
			wantRows: []int{0},
		},
		{
			name: "blank narration rows are ignored",
			rows: TextGrid(
				[]string{"02/05/2024", "a", "1", ""},
				[]string{"", "  ", "", "9"},
			),
			want:     []string{"a"},
			wantRows: []int{0},
		},
		{
			name: "orphans before the first dated row",
			rows: TextGrid(
				[]string{"", "saldo anterior", "", ""},
				[]string{"02/05/2024", "a", "1", ""},
			),
			want:        []string{"a"},
			wantRows:    []int{1},
			wantOrphans: []int{0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, orphans := Consolidate(&Table{Rows: tc.rows}, cols)
			var got []string
			var rows []int
			for _, e := range entries {
				got = append(got, e.Narration)
				rows = append(rows, e.Row)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("narrations mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantRows, rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantOrphans, orphans); diff != "" {
				t.Errorf("orphans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
