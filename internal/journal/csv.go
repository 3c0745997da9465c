package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "line_id,date,account_code,description,debit,credit,deal_number,memo"

const (
	numFields   = 8
	dateFormat  = "2006-01-02"
	colLineID   = 0
	colDate     = 1
	colAcctCode = 2
	colDesc     = 3
	colDebit    = 4
	colCredit   = 5
	colDealNum  = 6
	colMemo     = 7
)

// ReadLines reads all journal lines from a journal.csv reader.
func ReadLines(r io.Reader) ([]model.JournalLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var lines []model.JournalLine
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteLines writes journal lines (including the header).
func WriteLines(w io.Writer, lines []model.JournalLine) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLine converts a JournalLine to a CSV row.
func MarshalLine(line model.JournalLine) []string {
	row := make([]string, numFields)
	row[colLineID] = line.LineID
	row[colDate] = line.Date.Format(dateFormat)
	row[colAcctCode] = line.AccountCode
	row[colDesc] = line.Description

	if !line.Debit.IsZero() {
		row[colDebit] = line.Debit.StringFixed(2)
	}
	if !line.Credit.IsZero() {
		row[colCredit] = line.Credit.StringFixed(2)
	}

	row[colDealNum] = line.DealNumber
	row[colMemo] = line.Memo
	return row
}

// UnmarshalLine converts a CSV row to a JournalLine.
func UnmarshalLine(rec []string) (model.JournalLine, error) {
	if len(rec) != numFields {
		return model.JournalLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		return model.JournalLine{}, fmt.Errorf("invalid date %q: %w", rec[colDate], err)
	}

	debit := decimal.Zero
	if rec[colDebit] != "" {
		debit, err = decimal.NewFromString(rec[colDebit])
		if err != nil {
			return model.JournalLine{}, fmt.Errorf("invalid debit %q: %w", rec[colDebit], err)
		}
	}

	credit := decimal.Zero
	if rec[colCredit] != "" {
		credit, err = decimal.NewFromString(rec[colCredit])
		if err != nil {
			return model.JournalLine{}, fmt.Errorf("invalid credit %q: %w", rec[colCredit], err)
		}
	}

	return model.JournalLine{
		LineID:      rec[colLineID],
		Date:        date,
		AccountCode: rec[colAcctCode],
		Description: rec[colDesc],
		Debit:       debit,
		Credit:      credit,
		DealNumber:  rec[colDealNum],
		Memo:        rec[colMemo],
	}, nil
}
