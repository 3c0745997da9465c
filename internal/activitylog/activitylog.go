// Package activitylog records desk, transition, and posting actions in
// logs/activity-log.csv so a books repository carries its own audit
// trail.
package activitylog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp   time.Time
	User        string
	Action      string // desk, status, finalize, post, import, init
	DealNumber  string
	EntryNumber string // journal entry number, if the action posted one
	CommitHash  string
	Details     string
}

// Header is the CSV header for activity-log.csv.
const Header = "timestamp,user,action,deal_number,entry_number,commit_hash,details"

const (
	numFields    = 7
	logDir       = "logs"
	logFile      = "logs/activity-log.csv"
	colTimestamp = 0
	colUser      = 1
	colAction    = 2
	colDealNum   = 3
	colEntryNum  = 4
	colCommit    = 5
	colDetails   = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colUser] = e.User
	row[colAction] = e.Action
	row[colDealNum] = e.DealNumber
	row[colEntryNum] = e.EntryNumber
	row[colCommit] = e.CommitHash
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(rec []string) (Entry, error) {
	if len(rec) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	ts, err := time.Parse(time.RFC3339, rec[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp %q: %w", rec[colTimestamp], err)
	}

	return Entry{
		Timestamp:   ts,
		User:        rec[colUser],
		Action:      rec[colAction],
		DealNumber:  rec[colDealNum],
		EntryNumber: rec[colEntryNum],
		CommitHash:  rec[colCommit],
		Details:     rec[colDetails],
	}, nil
}

// Append writes entries to the activity log, creating it (with header)
// if needed.
func Append(root string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	for _, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing log entry: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries in the activity log.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && strings.Join(rec, ",") == Header {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
