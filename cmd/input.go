package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/transitory"
	"github.com/etnz/transitory/sheet"
)

// reportSuffix ends the name of the reports written by transit.
const reportSuffix = "_report"

// stdinLedger is the ledger argument reading the standard input.
const stdinLedger = "-"

// latestLedger returns the most recently modified spreadsheet of dir,
// reports excluded.
func latestLedger(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xls*"))
	if err != nil {
		return "", err
	}
	var latest string
	var latestInfo os.FileInfo
	for _, m := range matches {
		stem := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
		if strings.HasSuffix(stem, reportSuffix) || strings.HasPrefix(filepath.Base(m), "~$") {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if latestInfo == nil || info.ModTime().After(latestInfo.ModTime()) {
			latest, latestInfo = m, info
		}
	}
	if latest == "" {
		return "", errors.New("no spreadsheet found in " + dir)
	}
	return latest, nil
}

// inputFile returns the ledger named on the command line, or the latest one
// of the working directory.
func inputFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return latestLedger(".")
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected a single ledger file, got %d", len(args))
	}
}

// defaultOutput returns where the report of input is written: next to it, as
// "<stem>_report.xlsx", or as a "<stem>_report" directory of CSV files.
func defaultOutput(input, format string) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input)) + reportSuffix
	if format == "csv" {
		return stem
	}
	return stem + ".xlsx"
}

// readLedger reads the ledger named input, or stdin when input is "-".
func readLedger(input string, stdin io.Reader, opts sheet.Options) (transitory.Grid, error) {
	if input == stdinLedger {
		return sheet.ReadStream(stdin, opts)
	}
	return sheet.ReadFile(input, opts)
}
