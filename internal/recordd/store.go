package recordd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/salman-113/storefront/pkg/errors"
)

// Record is one stored resource. Every record carries a string "id" field;
// everything else is schemaless. Keeping records as raw maps gives PATCH its
// shallow-merge semantics: whatever top-level keys the client sends replace
// the stored ones wholesale, untouched keys survive.
type Record = map[string]any

// Store is a file-backed collection store. The whole data set lives in
// memory; every mutation is written through to the data file atomically.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string][]Record
}

// OpenStore loads the data file into memory. A missing file starts an empty
// store; the file is created on the first write.
func OpenStore(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string][]Record),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return s, nil
}

// Collections returns the names of the stored collections.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	return names
}

// List returns the records of a collection, filtered by exact match on the
// given top-level fields. Unknown collections list as empty, matching how a
// fresh data file behaves.
func (s *Store) List(collection string, query url.Values) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.data[collection]))
	for _, rec := range s.data[collection] {
		if matchesQuery(rec, query) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

// Get returns one record by id.
func (s *Store) Get(collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.data[collection] {
		if recordID(rec) == id {
			return cloneRecord(rec), nil
		}
	}
	return nil, apperrors.NotFound(collection, id)
}

// Create appends a record. The record must carry a non-empty id that is not
// already taken.
func (s *Store) Create(collection string, rec Record) error {
	id := recordID(rec)
	if id == "" {
		return apperrors.InvalidInput("record id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data[collection] {
		if recordID(existing) == id {
			return apperrors.AlreadyPresent(fmt.Sprintf("%s %s already exists", collection, id))
		}
	}
	s.data[collection] = append(s.data[collection], cloneRecord(rec))
	return s.flushLocked()
}

// Patch shallow-merges the overlay into the record: each top-level key in
// the overlay replaces the stored value wholesale. The id key cannot be
// changed. Returns the merged record.
func (s *Store) Patch(collection, id string, overlay Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.data[collection] {
		if recordID(rec) != id {
			continue
		}
		merged := cloneRecord(rec)
		for k, v := range overlay {
			if k == "id" {
				continue
			}
			merged[k] = v
		}
		s.data[collection][i] = merged
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return cloneRecord(merged), nil
	}
	return nil, apperrors.NotFound(collection, id)
}

// Replace overwrites the record wholesale, keeping its id.
func (s *Store) Replace(collection, id string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.data[collection] {
		if recordID(existing) != id {
			continue
		}
		next := cloneRecord(rec)
		next["id"] = id
		s.data[collection][i] = next
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return cloneRecord(next), nil
	}
	return nil, apperrors.NotFound(collection, id)
}

// Delete removes the record by id.
func (s *Store) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.data[collection]
	for i, rec := range recs {
		if recordID(rec) != id {
			continue
		}
		s.data[collection] = append(recs[:i], recs[i+1:]...)
		return s.flushLocked()
	}
	return apperrors.NotFound(collection, id)
}

// Flush writes the current data set to the data file.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// flushLocked writes via a temp file and rename so a crash mid-write never
// truncates the data file. Caller holds s.mu.
func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".recordd-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func recordID(rec Record) string {
	id, _ := rec["id"].(string)
	return id
}

// matchesQuery does exact string comparison against the record's top-level
// scalar fields. Non-scalar fields never match.
func matchesQuery(rec Record, query url.Values) bool {
	for key, wanted := range query {
		if len(wanted) == 0 {
			continue
		}
		val, ok := rec[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", val) != wanted[0] {
			return false
		}
	}
	return true
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
