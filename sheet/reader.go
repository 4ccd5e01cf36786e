// Package sheet reads ledger extracts into grids and writes reports as
// spreadsheets.
package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/transitory"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encodings of CSV files.
const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
)

// Options control how a ledger file is read.
type Options struct {
	// Sheet is the name of the worksheet to read, the first one if empty.
	Sheet string
	// Encoding of CSV files: UTF8 (default) or Windows1252.
	Encoding string
	// Comma is the CSV separator. It is guessed from the first line when 0.
	Comma rune
}

// ErrUnsupportedFormat is returned for files that are neither spreadsheets nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadFile reads the ledger extract at path. The format is chosen from the
// file extension: .xlsx and .xlsm, legacy .xls, .csv and .txt.
//
// A .xls file that cannot be read as a legacy workbook is read as xlsx, which
// is what many exports named .xls actually are.
func ReadFile(path string, opts Options) (transitory.Grid, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return readXLSXFile(path, opts)
	case ".xls":
		g, err := readXLS(path, opts)
		if err == nil {
			return g, nil
		}
		g, xerr := readXLSXFile(path, opts)
		if xerr != nil {
			return nil, fmt.Errorf("cannot read %q as xls (%v) nor as xlsx: %w", path, err, xerr)
		}
		return g, nil
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f, opts)
	default:
		return nil, fmt.Errorf("%q: %w %q", path, ErrUnsupportedFormat, ext)
	}
}

func readXLSXFile(path string, opts Options) (transitory.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

// ReadXLSX reads a workbook from r.
func ReadXLSX(r io.Reader, opts Options) (transitory.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

// Magic numbers of workbook files.
var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// ReadStream reads a ledger extract of unknown name from r, typically the
// standard input. Workbooks are recognized by their signature, anything else
// is read as CSV. Legacy xls workbooks can only be read from a file.
func ReadStream(r io.Reader, opts Options) (transitory.Grid, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zipMagic))
	switch {
	case bytes.Equal(head, zipMagic):
		return ReadXLSX(br, opts)
	case bytes.Equal(head, oleMagic):
		return nil, fmt.Errorf("%w: legacy xls workbooks must be read from a file", ErrUnsupportedFormat)
	default:
		return ReadCSV(br, opts)
	}
}

func readWorkbook(f *excelize.File, opts Options) (transitory.Grid, error) {
	name, err := selectSheet(f.GetSheetList(), opts.Sheet)
	if err != nil {
		return nil, err
	}
	// raw values keep numbers and dates independent of the cell display format.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", name, err)
	}
	return transitory.TextGrid(rows...), nil
}

func selectSheet(sheets []string, name string) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheet")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("no sheet %q, available sheets are %q", name, sheets)
}

// readXLS reads a legacy BIFF workbook.
func readXLS(path string, opts Options) (transitory.Grid, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, err
	}
	index := 0
	if opts.Sheet != "" {
		index = -1
		for i := 0; i < workbook.GetNumberSheets(); i++ {
			s, err := workbook.GetSheet(i)
			if err == nil && s != nil && strings.EqualFold(s.GetName(), opts.Sheet) {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("no sheet %q", opts.Sheet)
		}
	}
	sheet, err := workbook.GetSheet(index)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, errors.New("workbook has no sheet")
	}

	var g transitory.Grid
	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			g = append(g, nil)
			continue
		}
		var values []string
		for _, col := range row.GetCols() {
			if col == nil {
				values = append(values, "")
				continue
			}
			values = append(values, col.GetString())
		}
		g = append(g, transitory.TextGrid(values)...)
	}
	return g, nil
}

// ReadCSV reads a CSV extract from r.
func ReadCSV(r io.Reader, opts Options) (transitory.Grid, error) {
	switch strings.ToLower(opts.Encoding) {
	case "", UTF8, "utf8":
	case Windows1252, "cp1252", "latin1":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", opts.Encoding)
	}

	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}
	comma := opts.Comma
	if comma == 0 {
		comma = guessComma(br)
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv: %w", err)
	}
	return transitory.TextGrid(records...), nil
}

// guessComma returns ';' when the head of the file has more semicolons than
// commas, as spreadsheets using a decimal comma export them.
func guessComma(br *bufio.Reader) rune {
	head, _ := br.Peek(4096)
	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';'
	}
	return ','
}
