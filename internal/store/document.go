// Package store persists one collection per flat JSON file. A file holds a
// single top-level JSON array of records and is always rewritten whole.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrCorrupt  = errors.New("document corrupt")
)

// Handles opened on the same cleaned path share one lock, so mutations on a
// path serialize across the whole process while reads stay concurrent.
var (
	locksMu sync.Mutex
	locks   = map[string]*sync.RWMutex{}
)

func lockFor(path string) *sync.RWMutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	l, ok := locks[path]
	if !ok {
		l = &sync.RWMutex{}
		locks[path] = l
	}
	return l
}

// Document is a handle to one collection file. The zero value is not usable;
// call Open.
type Document[T any] struct {
	path string
	mu   *sync.RWMutex
}

func Open[T any](path string) *Document[T] {
	clean := filepath.Clean(path)
	return &Document[T]{path: clean, mu: lockFor(clean)}
}

func (d *Document[T]) Path() string { return d.path }

// Load reads and decodes the whole collection. ErrNotFound when the file is
// absent, ErrCorrupt when it is not a JSON array.
func (d *Document[T]) Load() ([]T, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.load()
}

// Save replaces the collection file. The write goes to a temp file in the
// same directory first and is renamed over the target, so a crash mid-write
// never leaves a half-written document.
func (d *Document[T]) Save(records []T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(records)
}

// Update runs one read-modify-write cycle with the path's write lock held
// throughout, so concurrent mutations cannot drop each other's writes.
func (d *Document[T]) Update(fn func(records []T) ([]T, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.load()
	if err != nil {
		return err
	}

	next, err := fn(records)
	if err != nil {
		return err
	}

	return d.save(next)
}

func (d *Document[T]) load() ([]T, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, d.path)
		}
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
		return nil, fmt.Errorf("%w: %s: top-level value is not a JSON array", ErrCorrupt, d.path)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, d.path, err)
	}
	return records, nil
}

func (d *Document[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", d.path, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("write %s: %w", tmpName, werr)
		}
		return fmt.Errorf("close %s: %w", tmpName, cerr)
	}

	if err := os.Rename(tmpName, d.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", d.path, err)
	}
	return nil
}
