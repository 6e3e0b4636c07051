package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kaptinlin/jsonrepair"

	"familyconnect/internal/logging"
)

// Store owns the JSON-backed birthdays and events document. It loads once at
// construction and persists the whole document on every mutation.
//
// The store is safe for concurrent use within a single process; it offers no
// protection against concurrent writers in other processes (last write wins).
type Store struct {
	path   string
	logger logging.Logger
	clock  Clock

	mu   sync.Mutex
	data Document
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock replaces the wall clock, used by tests to pin "today".
func WithClock(clock Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

// WithLogger replaces the store logger.
func WithLogger(logger logging.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// Open loads the document at path. A missing or unreadable file yields an
// empty document; corrupt JSON gets one repair attempt before falling back to
// empty. Open never fails on bad data.
func Open(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		logger: logging.NewComponentLogger("CalendarStore"),
		clock:  RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = s.load()
	return s
}

func (s *Store) load() Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read store file %s: %v", s.path, err)
		}
		return emptyDocument()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil {
		ensureCollections(&doc)
		return doc
	}

	// The file exists but does not parse. Attempt a repair before giving up;
	// hand-edited store files tend to have trailing commas or missing quotes.
	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr == nil {
		if err := json.Unmarshal([]byte(repaired), &doc); err == nil {
			s.logger.Warn("Store file %s was corrupt; recovered via repair", s.path)
			ensureCollections(&doc)
			return doc
		}
	}

	s.logger.Warn("Store file %s is corrupt and unrecoverable; starting empty", s.path)
	return emptyDocument()
}

func ensureCollections(doc *Document) {
	if doc.Birthdays == nil {
		doc.Birthdays = []BirthdayRecord{}
	}
	if doc.Events == nil {
		doc.Events = []EventRecord{}
	}
}

// Save serializes the full in-memory document back to the store path. It
// writes to a temp file in the same directory and renames it into place so a
// crash mid-write cannot truncate the previous contents.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".birthdays-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// AddEvent appends an event and persists synchronously before returning. The
// date string is not validated here; malformed dates are tolerated and simply
// skipped by later queries.
func (s *Store) AddEvent(name, date, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Events = append(s.data.Events, EventRecord{
		Name:        name,
		Date:        date,
		Description: description,
	})
	if err := s.saveLocked(); err != nil {
		return err
	}
	s.logger.Info("Event %q added for %s", name, date)
	return nil
}

// TodaysBirthdays reports birthdays matching the store clock's current date.
func (s *Store) TodaysBirthdays() []BirthdayMatch {
	s.mu.Lock()
	records := append([]BirthdayRecord(nil), s.data.Birthdays...)
	s.mu.Unlock()
	return TodaysBirthdays(s.clock.Now(), records)
}

// UpcomingEvents reports events on or after the store clock's current date,
// soonest first.
func (s *Store) UpcomingEvents() []UpcomingEvent {
	s.mu.Lock()
	records := append([]EventRecord(nil), s.data.Events...)
	s.mu.Unlock()
	return UpcomingEvents(s.clock.Now(), records)
}

// Birthdays returns a copy of the stored birthday records.
func (s *Store) Birthdays() []BirthdayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]BirthdayRecord(nil), s.data.Birthdays...)
}

// Events returns a copy of the stored event records.
func (s *Store) Events() []EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EventRecord(nil), s.data.Events...)
}
