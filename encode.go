package transitory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/transitory/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransactions writes txs as JSONL, one transaction per line.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		data, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("could not marshal transaction of row %d: %w", tx.Row, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("could not write transaction of row %d: %w", tx.Row, err)
		}
	}
	return nil
}

// DecodeTransactions reads transactions written by EncodeTransactions.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var temp struct {
			Day       date.Date `json:"day"`
			Row       int       `json:"row"`
			Batch     string    `json:"batch"`
			Narration string    `json:"narration"`
			Note      string    `json:"note"`
			Notes     []string  `json:"notes"`
			Debit     Amount    `json:"debit"`
			Credit    Amount    `json:"credit"`
		}
		if err := json.Unmarshal(data, &temp); err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		tx := Transaction{
			Row:       temp.Row,
			Date:      temp.Day,
			Narration: temp.Narration,
			Batch:     temp.Batch,
			Debit:     temp.Debit,
			Credit:    temp.Credit,
			NoteID:    temp.Note,
			NoteIDs:   temp.Notes,
		}
		if tx.NoteIDs == nil && tx.NoteID != "" && tx.NoteID != NoNote {
			tx.NoteIDs = []string{tx.NoteID}
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return txs, nil
}
