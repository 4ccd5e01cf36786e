package transitory

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical ledger column.
type Field string

const (
	FieldDate   Field = "date"
	FieldHist   Field = "hist"
	FieldDebit  Field = "debit"
	FieldCredit Field = "credit"
	FieldBatch  Field = "batch"
)

// Fields lists the canonical fields in declaration order.
var Fields = []Field{FieldDate, FieldHist, FieldDebit, FieldCredit, FieldBatch}

// mandatory fields, in the order they are reported.
var mandatory = []Field{FieldDate, FieldHist, FieldDebit, FieldCredit}

// ParseField parses a canonical field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Aliases are the column name patterns recognized for each field. Patterns are
// regular expressions matched against the trimmed, lower-cased column name.
type Aliases map[Field][]string

// DefaultAliases returns the aliases of the usual Brazilian accounting exports,
// plus their English counterparts.
func DefaultAliases() Aliases {
	return Aliases{
		FieldDate:   {`^data(\s+do\s+lan[cç]amento)?$`, `^dt$`, `^emiss[aã]o$`, `^lan[cç]amento$`, `^date$`},
		FieldHist:   {`^hist[oó]rico(\s+do\s+lan[cç]amento)?$`, `^descri[cç][aã]o(\s+do\s+lan[cç]amento)?$`, `^narration$`, `^description$`},
		FieldDebit:  {`^d[eé]bito$`, `^(valor|vlr)\s*d[eé]bito$`, `^debit$`},
		FieldCredit: {`^cr[eé]dito$`, `^(valor|vlr)\s*cr[eé]dito$`, `^credit$`},
		FieldBatch:  {`^lote$`, `^n[ºo°]?\s*lote$`, `^batch$`},
	}
}

// compile returns the compiled patterns of every field.
func (a Aliases) compile() (map[Field][]*regexp.Regexp, error) {
	res := make(map[Field][]*regexp.Regexp, len(a))
	for f, patterns := range a {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("invalid alias %q for field %s: %w", p, f, err)
			}
			res[f] = append(res[f], re)
		}
	}
	return res, nil
}

// header row hints, matched against folded cell text.
var (
	dateHint   = regexp.MustCompile(`\bdata\b|lancamento|emissao|\bdate\b`)
	histHint   = regexp.MustCompile(`historico|descricao|narration|description`)
	debitHint  = regexp.MustCompile(`debit`)
	creditHint = regexp.MustCompile(`credit`)
)

// fold lower-cases s and removes its diacritics.
func fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return result
}

// headerHints reports which column categories appear in a row.
func headerHints(r Row) (hasDate, hasHist, hasDebit, hasCredit bool) {
	for _, c := range r {
		s := fold(c.String())
		hasDate = hasDate || dateHint.MatchString(s)
		hasHist = hasHist || histHint.MatchString(s)
		hasDebit = hasDebit || debitHint.MatchString(s)
		hasCredit = hasCredit || creditHint.MatchString(s)
	}
	return
}

// DetectHeader returns the index of the header row of g.
//
// The first row naming a date column, at least one amount column and
// anything else among narration and amounts wins. Failing that, the first row
// naming at least two of the date, narration and amount categories is used.
func DetectHeader(g Grid) (int, error) {
	for i, r := range g {
		date, hist, debit, credit := headerHints(r)
		if date && (hist || debit || credit) && (debit || credit) {
			return i, nil
		}
	}
	for i, r := range g {
		date, hist, debit, credit := headerHints(r)
		score := 0
		for _, ok := range []bool{date, hist, debit || credit} {
			if ok {
				score++
			}
		}
		if score >= 2 {
			return i, nil
		}
	}
	return -1, &SchemaError{Reason: "cannot locate the header row (date, narration, debit, credit)"}
}

// Table is the typed view of a grid below its header row.
type Table struct {
	Columns []string
	Rows    []Row
}

// ColumnMap maps canonical fields to column indexes of a Table.
type ColumnMap map[Field]int

// Has reports whether the field is mapped.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Cell returns the cell of field f in row r, empty when f is not mapped.
func (m ColumnMap) Cell(r Row, f Field) Cell {
	i, ok := m[f]
	if !ok {
		return Cell{}
	}
	return r.At(i)
}

// Schema is the result of resolving a raw grid.
type Schema struct {
	HeaderRow int
	Columns   ColumnMap
	Table     *Table
}

// ColumnName returns the name of the column mapped to f, "" when unmapped.
func (s *Schema) ColumnName(f Field) string {
	i, ok := s.Columns[f]
	if !ok {
		return ""
	}
	return s.Table.Columns[i]
}

// tableBelow builds the table found below the header row: blank header cells
// get a positional name, columns without any data and empty rows are dropped.
func tableBelow(g Grid, header int) *Table {
	width := g.Width()
	names := make([]string, width)
	for i := range names {
		name := strings.TrimSpace(g[header].At(i).String())
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = name
	}

	data := g[header+1:]
	var keep []int
	for i := range names {
		for _, r := range data {
			if !r.At(i).IsEmpty() {
				keep = append(keep, i)
				break
			}
		}
	}

	t := &Table{Columns: make([]string, len(keep))}
	for j, i := range keep {
		t.Columns[j] = names[i]
	}
	for _, r := range data {
		row := make(Row, len(keep))
		for j, i := range keep {
			row[j] = r.At(i)
		}
		if !row.IsEmpty() {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// MapColumns maps each canonical field to the first column whose name matches
// one of its aliases.
func MapColumns(columns []string, aliases Aliases) (ColumnMap, error) {
	compiled, err := aliases.compile()
	if err != nil {
		return nil, err
	}
	m := make(ColumnMap)
	for _, f := range Fields {
		for i, c := range columns {
			name := strings.ToLower(strings.TrimSpace(c))
			folded := fold(name)
			if matchAny(compiled[f], name) || matchAny(compiled[f], folded) {
				m[f] = i
				break
			}
		}
	}

	var missing []Field
	for _, f := range mandatory {
		if !m.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{
			Missing:   missing,
			Available: columns,
			Closest:   closestColumns(columns, missing),
		}
	}
	return m, nil
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// fieldLabels are the names looked for when suggesting a column.
var fieldLabels = map[Field]string{
	FieldDate:   "data",
	FieldHist:   "historico",
	FieldDebit:  "debito",
	FieldCredit: "credito",
	FieldBatch:  "lote",
}

// closestColumns suggests, for each missing field, the available column with
// the most similar name.
func closestColumns(columns []string, missing []Field) map[Field]string {
	if len(columns) == 0 {
		return nil
	}
	folded := make([]string, len(columns))
	original := make(map[string]string, len(columns))
	for i, c := range columns {
		folded[i] = fold(c)
		original[folded[i]] = c
	}
	cm := closestmatch.New(folded, []int{2, 3})
	res := make(map[Field]string, len(missing))
	for _, f := range missing {
		if c := cm.Closest(fieldLabels[f]); c != "" {
			res[f] = original[c]
		}
	}
	return res
}

// ResolveSchema locates the header row of g, builds the table below it and
// maps its columns to the canonical fields.
func ResolveSchema(g Grid, aliases Aliases) (*Schema, error) {
	header, err := DetectHeader(g)
	if err != nil {
		return nil, err
	}
	t := tableBelow(g, header)
	if len(t.Rows) == 0 {
		return nil, &EmptyLedgerError{HeaderRow: header}
	}
	m, err := MapColumns(t.Columns, aliases)
	if err != nil {
		return nil, err
	}
	return &Schema{HeaderRow: header, Columns: m, Table: t}, nil
}
