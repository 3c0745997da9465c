package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dealdesk-dev/dealdesk/internal/dealnum"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// booksDir is the subdirectory holding posted journals.
const booksDir = "books"

// Service posts journal entries to the books and reads them back.
// Posting is all-or-nothing at the file level: the month's journal is
// rewritten to a temp file and renamed into place, so a failed post
// leaves the prior journal intact.
type Service struct {
	root  string
	chart AccountChecker
	now   func() time.Time
}

// NewService creates a journal Service rooted at a books repository.
func NewService(root string, chart AccountChecker) *Service {
	return &Service{root: root, chart: chart, now: time.Now}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Post assigns the next entry number for the entry's month, validates
// the whole month including the new lines, and writes the journal.
// Returns the entry with its number, line IDs, and posted timestamp
// assigned.
func (s *Service) Post(entry model.JournalEntry) (model.JournalEntry, error) {
	year := entry.Date.Year()
	month := int(entry.Date.Month())

	seq, err := s.NextEntrySeq(year, month)
	if err != nil {
		return model.JournalEntry{}, err
	}
	ref := dealnum.EntryRef{Year: year, Month: month, Seq: seq}

	entry.Number = ref.String()
	for i := range entry.Lines {
		entry.Lines[i].LineID = ref.LineID(i)
	}

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return model.JournalEntry{}, err
	}

	all := append(existing, entry.Lines...)
	if verrs := ValidateLines(all, s.chart, year, month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return model.JournalEntry{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.JournalEntry{}, fmt.Errorf("creating journal dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "journal-*.csv")
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("creating temp journal: %w", err)
	}
	if err := WriteLines(tmp, all); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return model.JournalEntry{}, fmt.Errorf("writing journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return model.JournalEntry{}, fmt.Errorf("closing temp journal: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return model.JournalEntry{}, fmt.Errorf("replacing journal: %w", err)
	}

	posted := s.now()
	entry.PostedAt = &posted
	return entry, nil
}

// ReadMonth reads all journal lines for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.JournalLine, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return lines, nil
}

// ReadAll reads every posted journal line across all months, in path
// order.
func (s *Service) ReadAll() ([]model.JournalLine, error) {
	var paths []string
	root := filepath.Join(s.root, booksDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "journal.csv" {
			paths = append(paths, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walking books dir: %w", err)
	}
	sort.Strings(paths)

	var all []model.JournalLine
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening journal %s: %w", path, err)
		}
		lines, err := ReadLines(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading journal %s: %w", path, err)
		}
		all = append(all, lines...)
	}
	return all, nil
}

// ReadDeal returns the posted lines referencing a deal number.
func (s *Service) ReadDeal(dealNumber string) ([]model.JournalLine, error) {
	all, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var lines []model.JournalLine
	for _, l := range all {
		if l.DealNumber == dealNumber {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// NextEntrySeq returns the next available sequence number for a month.
func (s *Service) NextEntrySeq(year, month int) (int, error) {
	lines, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, line := range lines {
		ref, err := dealnum.ParseEntryRef(line.LineID)
		if err != nil {
			continue
		}
		if ref.Seq > maxSeq {
			maxSeq = ref.Seq
		}
	}
	return maxSeq + 1, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, booksDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
