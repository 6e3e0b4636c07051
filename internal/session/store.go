package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"familyconnect/internal/logging"
)

// Entry is one turn of a conversation: the user's query or an assistant
// reply, tagged with the intent the router resolved it to.
type Entry struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Intent  string    `json:"intent,omitempty"`
	At      time.Time `json:"at"`
}

// Session is a persisted conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Entries   []Entry   `json:"entries"`
}

// Store persists sessions as one JSON file per session under a directory.
// Files are written whole on every append; the conversations are short
// enough that rewriting beats the bookkeeping of an append-only log.
type Store struct {
	dir    string
	logger logging.Logger
	mu     sync.Mutex
}

// NewStore opens (creating if needed) a session directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger("SessionStore"),
	}, nil
}

// Create starts a new empty session and persists it.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(sess); err != nil {
		return nil, err
	}
	s.logger.Debug("Created session %s", sess.ID)
	return sess, nil
}

// Append adds an entry to the session and persists it.
func (s *Store) Append(id string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(id)
	if err != nil {
		return err
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	sess.Entries = append(sess.Entries, entry)
	sess.UpdatedAt = entry.At
	return s.save(sess)
}

// Get loads one session by ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// List returns all readable sessions, most recently updated first. Files
// that fail to decode are skipped with a warning so one corrupt session
// cannot hide the rest.
func (s *Store) List() ([]*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sess, err := s.load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			s.logger.Warn("Skipping unreadable session file %s: %v", entry.Name(), err)
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *Store) path(id string) string {
	// IDs come from uuid.NewString, but callers can pass anything; keep
	// the filename inside the store directory.
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}

func (s *Store) load(id string) (*Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *Store) save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	path := s.path(sess.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("persist session %s: %w", sess.ID, err)
	}
	return nil
}
