package Journal

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"CarJournal/Models"
)

// ErrNotFound is returned by lookups that match no stored record.
var ErrNotFound = errors.New("record not found")

// RecordStore is the durable home of the journal. It owns the in-memory
// collection and rewrites the whole backing file on every mutation, so
// readers never observe a partial write. All access goes through the mutex;
// the backing collection is never handed out by reference.
type RecordStore struct {
	mu        sync.Mutex
	path      string
	records   []Models.CarRecord
	recovered bool
}

// OpenRecordStore loads the journal file at path. A missing or empty file
// starts an empty journal. An unreadable file is reset: the failure is
// logged, the store starts empty and immediately overwrites the bad file.
// That recovery discards whatever the file held — Recovered reports it so
// operators can tell it happened.
func OpenRecordStore(path string) *RecordStore {
	store := &RecordStore{path: path}
	store.load()
	return store
}

func (s *RecordStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading records file %s: %v", s.path, err)
		}
		s.records = []Models.CarRecord{}
		return
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		s.records = []Models.CarRecord{}
		return
	}

	var loaded []Models.CarRecord
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("Error loading records from %s: %v", s.path, err)
		log.Printf("Resetting %s to an empty journal", s.path)
		s.records = []Models.CarRecord{}
		s.recovered = true
		if err := s.persist(); err != nil {
			log.Printf("Error rewriting records file after reset: %v", err)
		}
		return
	}
	s.records = loaded
}

// Recovered reports whether the last load had to discard a corrupt journal
// file and start over.
func (s *RecordStore) Recovered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovered
}

// Reload re-reads the backing file, replacing the in-memory collection.
func (s *RecordStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recovered = false
	s.load()
}

// persist writes the full collection to disk. Callers must hold the mutex.
func (s *RecordStore) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// FindAll returns a deep copy of every record in store order. It never
// fails; an empty journal yields an empty slice.
func (s *RecordStore) FindAll() []Models.CarRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Models.CarRecord, 0, len(s.records))
	for i := range s.records {
		out = append(out, s.records[i].Clone())
	}
	return out
}

// FindByID returns the record with the given identifier, or ErrNotFound.
func (s *RecordStore) FindByID(id string) (Models.CarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != "" && s.records[i].ID == id {
			return s.records[i].Clone(), nil
		}
	}
	return Models.CarRecord{}, ErrNotFound
}

// Save appends a new record and persists the collection. A record without an
// identifier gets a fresh UUID, and a record without a date gets today's —
// both assigned in place so the caller sees them.
func (s *RecordStore) Save(record *Models.CarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Date.IsZero() {
		record.Date = Models.Today()
	}

	s.records = append(s.records, record.Clone())
	if err := s.persist(); err != nil {
		log.Printf("Error saving record %s: %v", record.ID, err)
		return err
	}
	return nil
}

// Update replaces the stored record carrying the same identifier, inserting
// the given one if no prior record existed. The caller is responsible for
// carrying over the identifier and history of the record being replaced.
func (s *RecordStore) Update(record Models.CarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(record.ID)
	s.records = append(s.records, record.Clone())
	if err := s.persist(); err != nil {
		log.Printf("Error updating record %s: %v", record.ID, err)
		return err
	}
	return nil
}

// Delete removes the record with the given identifier and persists. Deleting
// an unknown identifier is not an error.
func (s *RecordStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
	if err := s.persist(); err != nil {
		log.Printf("Error deleting record %s: %v", id, err)
		return err
	}
	return nil
}

func (s *RecordStore) removeLocked(id string) {
	kept := s.records[:0]
	for i := range s.records {
		if s.records[i].ID == "" || s.records[i].ID != id {
			kept = append(kept, s.records[i])
		}
	}
	s.records = kept
}

// FindByStatus returns records whose status name matches, ignoring case.
func (s *RecordStore) FindByStatus(status string) []Models.CarRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Models.CarRecord{}
	for i := range s.records {
		if strings.EqualFold(string(s.records[i].Status), status) {
			out = append(out, s.records[i].Clone())
		}
	}
	return out
}

// FindByType returns records whose type name matches, ignoring case.
func (s *RecordStore) FindByType(recordType string) []Models.CarRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Models.CarRecord{}
	for i := range s.records {
		if strings.EqualFold(string(s.records[i].Type), recordType) {
			out = append(out, s.records[i].Clone())
		}
	}
	return out
}
