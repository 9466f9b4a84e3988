// internal/faults/table.go
package faults

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/tamzrod/midas/internal/codec"
)

//go:embed faults.csv
var builtin []byte

// Record is one row of the fault dataset.
type Record struct {
	Code        string
	Description string
	Condition   string
	Recovery    string
}

// Table is an immutable fault-code lookup.
// It is safe for concurrent use because it is never mutated after Parse.
type Table struct {
	records map[string]Record
}

// Parse reads a CSV with a header row and columns code,description,condition,recovery.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("faults: empty dataset")
		}
		return nil, fmt.Errorf("faults: header: %w", err)
	}

	t := &Table{records: make(map[string]Record)}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("faults: %w", err)
		}

		code := strings.TrimSpace(row[0])
		if code == "" {
			return nil, errors.New("faults: empty code")
		}
		if _, dup := t.records[code]; dup {
			return nil, fmt.Errorf("faults: duplicate code %q", code)
		}
		t.records[code] = Record{
			Code:        code,
			Description: row[1],
			Condition:   row[2],
			Recovery:    row[3],
		}
	}
	return t, nil
}

// LoadFile parses a dataset from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("faults: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Get returns the full record for a code.
func (t *Table) Get(code string) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	r, ok := t.records[code]
	return r, ok
}

// Lookup implements codec.FaultLookup.
func (t *Table) Lookup(code string) (codec.FaultText, bool) {
	r, ok := t.Get(code)
	if !ok {
		return codec.FaultText{}, false
	}
	return codec.FaultText{
		Description: r.Description,
		Condition:   r.Condition,
		Recovery:    r.Recovery,
	}, true
}

// Len is the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table built from the embedded dataset.
// It is loaded on first use and never changes afterwards.
//
// The embedded dataset carries no rows: fault codes still decode, but their
// description, condition and recovery text come only from a file passed to
// LoadFile, taken from the detector's documentation.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(bytes.NewReader(builtin))
		if err != nil {
			// embedded dataset is part of the build
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
