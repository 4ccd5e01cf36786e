package transitory

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoteMatcher finds document references in a narration.
// Match returns normalized note ids, best first, or nothing.
type NoteMatcher interface {
	Name() string
	Match(text string) []string
}

// NoteExtractor tries its matchers in order; the first one yielding
// candidates decides the transaction notes.
type NoteExtractor struct {
	matchers  []NoteMatcher
	firstOnly bool
}

// DefaultInvoiceMarkers are the abbreviations announcing an invoice number.
var DefaultInvoiceMarkers = []string{"NF", "NFE"}

// NewNoteExtractor returns the standard extractor: numbers following an
// invoice marker first, any standalone number otherwise.
// When firstOnly is set, only the best candidate is kept.
func NewNoteExtractor(markers []string, firstOnly bool) *NoteExtractor {
	return &NoteExtractor{
		matchers:  []NoteMatcher{newInvoiceMatcher(markers), numberMatcher{}},
		firstOnly: firstOnly,
	}
}

// Extract returns the note ids found in text, best first.
func (x *NoteExtractor) Extract(text string) []string {
	for _, m := range x.matchers {
		ids := m.Match(text)
		if len(ids) == 0 {
			continue
		}
		if x.firstOnly {
			return ids[:1]
		}
		return ids
	}
	return nil
}

// NoteID returns the best note id of text, or NoNote.
func (x *NoteExtractor) NoteID(text string) string {
	if ids := x.Extract(text); len(ids) > 0 {
		return ids[0]
	}
	return NoNote
}

// dateLike matches dates such as 12/05/2024 or 1-5-24. A token reading as a
// date is never a note id; the year of a date in the narration still is.
var dateLike = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)

// numberToken is the grammar of a note number: 3+ digits, optional groups of
// three digits separated by a period or a space, optional "/" or "-" suffix of
// one to three digits.
const numberToken = `\d{3,}(?:[.\s]\d{3})*(?:[/-]\d{1,3})?`

// invoiceMatcher reads the number written right after an invoice marker
// ("NF 123.456", "NFe: 789/1"). The last one in the text wins.
type invoiceMatcher struct {
	re *regexp.Regexp
}

func newInvoiceMatcher(markers []string) invoiceMatcher {
	var trimmed []string
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			trimmed = append(trimmed, m)
		}
	}
	if len(trimmed) == 0 {
		trimmed = append(trimmed, DefaultInvoiceMarkers...)
	}
	// longest markers first so that "NFE" is not read as "NF" followed by "E".
	sort.SliceStable(trimmed, func(i, j int) bool { return len(trimmed[i]) > len(trimmed[j]) })
	quoted := make([]string, len(trimmed))
	for i, m := range trimmed {
		quoted[i] = markerPattern(m)
	}
	return invoiceMatcher{
		re: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)\D{0,3}(` + numberToken + `)`),
	}
}

// markerPattern quotes a marker, with a word boundary on each side that is a
// word character ("N.F." has none after it).
func markerPattern(m string) string {
	p := regexp.QuoteMeta(m)
	first, _ := utf8.DecodeRuneInString(m)
	last, _ := utf8.DecodeLastRuneInString(m)
	if isWordRune(first) {
		p = `\b` + p
	}
	if isWordRune(last) {
		p += `\b`
	}
	return p
}

func isWordRune(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func (invoiceMatcher) Name() string { return "invoice" }

func (m invoiceMatcher) Match(text string) []string {
	var last string
	for _, match := range m.re.FindAllStringSubmatch(text, -1) {
		if dateLike.MatchString(match[1]) {
			continue
		}
		last = match[1]
	}
	if last == "" {
		return nil
	}
	return []string{NormalizeNote(last)}
}

// numberMatcher reads every standalone number of the text. Numbers with a
// suffix rank first, then longer numbers.
type numberMatcher struct{}

func (numberMatcher) Name() string { return "number" }

func (numberMatcher) Match(text string) []string {
	var ids []string
	for _, span := range numberTokens(text) {
		token := text[span[0]:span[1]]
		if dateLike.MatchString(token) {
			continue
		}
		ids = append(ids, NormalizeNote(token))
	}
	sort.SliceStable(ids, func(i, j int) bool {
		si, sj := hasSuffix(ids[i]), hasSuffix(ids[j])
		if si != sj {
			return si
		}
		return digitCount(ids[i]) > digitCount(ids[j])
	})
	return ids
}

// numberTokens returns the byte spans of the number tokens of text that are
// not glued to other digits. At each start, the longest form of the token
// that is not followed by a digit is taken.
func numberTokens(text string) [][2]int {
	type pos struct {
		r   rune
		off int
	}
	var rs []pos
	for off, r := range text {
		rs = append(rs, pos{r, off})
	}
	offset := func(i int) int {
		if i >= len(rs) {
			return len(text)
		}
		return rs[i].off
	}
	isDigit := func(i int) bool { return i < len(rs) && rs[i].r >= '0' && rs[i].r <= '9' }
	digitsAt := func(i, n int) bool {
		for k := 0; k < n; k++ {
			if !isDigit(i + k) {
				return false
			}
		}
		return true
	}
	// tokenEnd returns the end of the token starting at i, or -1.
	tokenEnd := func(i int) int {
		j := i
		for isDigit(j) {
			j++
		}
		if j-i < 3 {
			return -1
		}
		ends := []int{j}
		for k := j; k < len(rs) && (rs[k].r == '.' || unicode.IsSpace(rs[k].r)) && digitsAt(k+1, 3); k += 4 {
			ends = append(ends, k+4)
		}
		for g := len(ends) - 1; g >= 0; g-- {
			e := ends[g]
			if e < len(rs) && (rs[e].r == '/' || rs[e].r == '-') {
				n := 0
				for n < 3 && isDigit(e+1+n) {
					n++
				}
				for l := n; l >= 1; l-- {
					if !isDigit(e + 1 + l) {
						return e + 1 + l
					}
				}
			}
			if !isDigit(e) {
				return e
			}
		}
		return -1
	}

	var spans [][2]int
	for i := 0; i < len(rs); {
		if isDigit(i) && (i == 0 || !isDigit(i-1)) {
			if end := tokenEnd(i); end >= 0 {
				spans = append(spans, [2]int{offset(i), offset(end)})
				i = end
				continue
			}
		}
		i++
	}
	return spans
}

func hasSuffix(id string) bool { return strings.ContainsAny(id, "/-") }

func digitCount(id string) int {
	n := 0
	for _, r := range id {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// NormalizeNote returns the canonical form of a note token: grouping periods
// and spaces are removed from the number, leading zeros dropped, and the "/"
// or "-" suffix kept verbatim.
func NormalizeNote(token string) string {
	base, sep, suffix := token, "", ""
	if i := strings.IndexAny(token, "/-"); i >= 0 {
		base, sep, suffix = token[:i], token[i:i+1], token[i+1:]
	}
	base = strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, base)
	if isDigits(base) {
		base = strings.TrimLeft(base, "0")
		if base == "" {
			base = "0"
		}
	}
	return base + sep + suffix
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
