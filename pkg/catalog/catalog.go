// Package catalog is a local badger-backed registry of tablebase build
// status keyed by canonical configuration name, so a batch run over a whole
// dependency closure can skip already-built tables and resume across process
// restarts. It is ambient tooling supplementing spec.md's scope, not part of
// the per-index build algorithm.
//
// Grounded on hailam-chessplay/internal/storage/storage.go: a badger/v4
// handle wrapped in a small struct, JSON-marshaled records per key,
// View/Update closures for reads/writes.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Status is a build's lifecycle stage.
type Status int

const (
	NotStarted Status = iota
	Building
	Done
	Failed
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Building:
		return "building"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "?"
	}
}

// Record is the persisted state for one configuration.
type Record struct {
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	OutputPath string    `json:"output_path,omitempty"`
	IndexMax   uint64    `json:"index_max,omitempty"`
	Suspect    bool      `json:"suspect,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
	Error      string    `json:"error,omitempty"`
}

// Catalog wraps a badger database of Records keyed by canonical name.
type Catalog struct {
	db *badger.DB
}

// Open opens (creating if absent) a catalog at dir.
func Open(dir string) (*Catalog, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %v: %w", dir, err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Get returns the record for name, or (Record{Name: name, Status: NotStarted}, false).
func (c *Catalog) Get(name string) (Record, bool, error) {
	rec := Record{Name: name, Status: NotStarted}
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, found, err
}

// Put writes rec as-is (UpdatedAt is caller-supplied; see MarkBuilding/
// MarkDone/MarkFailed for the common path that stamps it).
func (c *Catalog) Put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("catalog: marshal %v: %w", rec.Name, err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rec.Name), data)
	})
}

// MarkBuilding records that name's build has started.
func (c *Catalog) MarkBuilding(name string, at time.Time) error {
	return c.Put(Record{Name: name, Status: Building, UpdatedAt: at})
}

// MarkDone records a successful build and its output location.
func (c *Catalog) MarkDone(name, outputPath string, indexMax uint64, suspect bool, at time.Time) error {
	return c.Put(Record{Name: name, Status: Done, OutputPath: outputPath, IndexMax: indexMax, Suspect: suspect, UpdatedAt: at})
}

// MarkFailed records a build failure.
func (c *Catalog) MarkFailed(name string, cause error, at time.Time) error {
	return c.Put(Record{Name: name, Status: Failed, Error: cause.Error(), UpdatedAt: at})
}

// NeedsBuild reports whether name has no Done record yet (i.e. a batch
// driver should (re)build it).
func (c *Catalog) NeedsBuild(name string) (bool, error) {
	rec, found, err := c.Get(name)
	if err != nil {
		return false, err
	}
	return !found || rec.Status != Done, nil
}
