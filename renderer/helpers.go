package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats amounts in a currency.
type Money struct {
	cur money.Currency
}

// NewMoney returns the formatter of the ISO currency code. Unknown codes get
// a generic two-digit format.
func NewMoney(code string) Money {
	code = strings.ToUpper(code)
	if money.GetCurrency(code) == nil {
		return Money{cur: money.Currency{Code: code, Fraction: 2, Grapheme: code, Template: "1 $", Decimal: ".", Thousand: ","}}
	}
	// the money constructor never returns a nil currency.
	return Money{cur: *money.New(0, code).Currency()}
}

// Format returns the amount with the currency symbol and separators.
func (m Money) Format(v decimal.Decimal) string {
	minor := v.Shift(int32(m.cur.Fraction)).Round(0)
	return strings.TrimSpace(m.cur.Formatter().Format(minor.IntPart()))
}

// Signed is like Format but prefixes positive amounts with "+", zero is "-".
func (m Money) Signed(v decimal.Decimal) string {
	switch {
	case v.IsZero():
		return "-"
	case v.IsPositive():
		return "+" + m.Format(v)
	default:
		return m.Format(v)
	}
}

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// markdownRenderer accumulates a markdown document.
type markdownRenderer struct {
	*strings.Builder
	money Money
}

func newMarkdownRenderer(currency string) *markdownRenderer {
	return &markdownRenderer{Builder: &strings.Builder{}, money: NewMoney(currency)}
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *markdownRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

// cell escapes the characters that would break a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func check(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
