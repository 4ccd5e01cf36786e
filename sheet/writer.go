package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/etnz/transitory"
	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// XLSXWriter writes report tables as the sheets of a single workbook.
type XLSXWriter struct {
	Path string
}

// WriteTables implements transitory.TableWriter.
func (w XLSXWriter) WriteTables(tables []transitory.OutputTable) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, t := range tables {
		if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("cannot create sheet %q: %w", t.Name, err)
		}
		header := make([]interface{}, len(t.Header))
		for j, h := range t.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
			return fmt.Errorf("cannot write header of %q: %w", t.Name, err)
		}
		for r, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = xlsxValue(v)
			}
			if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
				return fmt.Errorf("cannot write row %d of %q: %w", r+1, t.Name, err)
			}
		}
	}
	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
		if index, err := f.GetSheetIndex(tables[0].Name); err == nil {
			f.SetActiveSheet(index)
		}
	}
	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("cannot save %q: %w", w.Path, err)
	}
	return nil
}

// xlsxValue converts a table value into a value excelize can store.
func xlsxValue(v any) interface{} {
	switch v := v.(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case transitory.Amount:
		if v.IsMissing() {
			return nil
		}
		return v.Decimal().InexactFloat64()
	case date.Date:
		return v.String()
	default:
		return v
	}
}

// CSVWriter writes each report table into its own CSV file, named after the
// table, in Dir.
type CSVWriter struct {
	Dir string
	// Prefix is prepended to every file name.
	Prefix string
	// Encoding is UTF8 (default) or Windows1252.
	Encoding string
	// Comma is the separator, ';' when 0.
	Comma rune
}

// WriteTables implements transitory.TableWriter.
func (w CSVWriter) WriteTables(tables []transitory.OutputTable) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}
	for _, t := range tables {
		path := filepath.Join(w.Dir, w.Prefix+t.Name+".csv")
		if err := w.writeFile(path, t); err != nil {
			return fmt.Errorf("cannot write %q: %w", path, err)
		}
	}
	return nil
}

func (w CSVWriter) writeFile(path string, t transitory.OutputTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteTable(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTable writes a single table to out.
func (w CSVWriter) WriteTable(out io.Writer, t transitory.OutputTable) error {
	switch w.Encoding {
	case "", UTF8, "utf8":
	case Windows1252, "cp1252", "latin1":
		tw := transform.NewWriter(out, charmap.Windows1252.NewEncoder())
		defer tw.Close()
		out = tw
	default:
		return fmt.Errorf("unsupported encoding %q", w.Encoding)
	}

	cw := csv.NewWriter(out)
	cw.Comma = ';'
	if w.Comma != 0 {
		cw.Comma = w.Comma
	}
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = csvValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
