// Package dealstore persists deals as JSON files under deals/ in the
// books repository, one file per deal number.
//
// JSON rather than YAML because decimal amounts marshal to exact
// strings through encoding/json; the YAML codec has no hook for them.
package dealstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

const dealsDir = "deals"

// Store reads and writes deals under a books repository root.
//
// Concurrent writers for the same deal must be serialized by the
// caller; Save assumes it is the only writer for its deal number.
type Store struct {
	root string
}

// New creates a Store rooted at a books repository.
func New(root string) *Store {
	return &Store{root: root}
}

// Save writes a deal to deals/<number>.json. The file is written to a
// temp file and renamed into place, so readers never observe a
// partially written deal.
func (s *Store) Save(deal model.Deal) error {
	if deal.Number == "" {
		return errors.New("deal has no number")
	}

	dir := filepath.Join(s.root, dealsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating deals dir: %w", err)
	}

	data, err := json.MarshalIndent(deal, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling deal %s: %w", deal.Number, err)
	}

	tmp, err := os.CreateTemp(dir, "deal-*.json")
	if err != nil {
		return fmt.Errorf("creating temp deal file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing deal %s: %w", deal.Number, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp deal file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(deal.Number)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing deal %s: %w", deal.Number, err)
	}
	return nil
}

// Load reads a deal by number.
func (s *Store) Load(number string) (model.Deal, error) {
	data, err := os.ReadFile(s.path(number))
	if err != nil {
		return model.Deal{}, fmt.Errorf("reading deal %s: %w", number, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()

	var deal model.Deal
	if err := dec.Decode(&deal); err != nil {
		return model.Deal{}, fmt.Errorf("parsing deal %s: %w", number, err)
	}
	return deal, nil
}

// List returns all stored deal numbers, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dealsDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	var numbers []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		numbers = append(numbers, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(numbers)
	return numbers, nil
}

func (s *Store) path(number string) string {
	return filepath.Join(s.root, dealsDir, number+".json")
}
