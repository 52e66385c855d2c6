// Package session keeps a local journal of the relay hops a party produced,
// so links and hashes can be looked up later. Protocol state itself is never
// persisted; receivers still trust only the link they were handed.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"soroban-swap/pkg/types"
)

const (
	DefaultStorageFileName = ".soroban-swap-sessions.json"
)

// Store handles persistence of swap sessions
type Store struct {
	filePath string
	mu       sync.RWMutex
	sessions map[string]*Session
}

// Session is one swap's journal of hops
type Session struct {
	Name       string            `json:"name"`
	ContractID string            `json:"contract_id"`
	CreatedAt  time.Time         `json:"created_at"`
	Hops       []types.HopRecord `json:"hops"`
}

type fileFormat struct {
	Sessions map[string]*Session `json:"sessions"`
}

// NewStore creates a store backed by the given file, defaulting to the
// user's home directory.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	store := &Store{
		filePath: filePath,
		sessions: make(map[string]*Session),
	}

	if err := store.load(); err != nil {
		// Missing file is fine, it is created on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load sessions: %w", err)
		}
	}

	return store, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var contents fileFormat
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("failed to unmarshal sessions: %w", err)
	}

	s.sessions = contents.Sessions
	if s.sessions == nil {
		s.sessions = make(map[string]*Session)
	}
	return nil
}

// save writes the session map to disk; callers hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(fileFormat{Sessions: s.sessions}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Record appends one hop to a session, creating the session if needed.
func (s *Store) Record(name, contractID string, hop types.HopRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[name]
	if !exists {
		sess = &Session{
			Name:       name,
			ContractID: contractID,
			CreatedAt:  time.Now().UTC(),
		}
		s.sessions[name] = sess
	}
	sess.Hops = append(sess.Hops, hop)

	return s.save()
}

// Get retrieves a session by name
func (s *Store) Get(name string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session '%s' not found", name)
	}
	return sess, nil
}

// Delete removes a session
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[name]; !exists {
		return fmt.Errorf("session '%s' not found", name)
	}
	delete(s.sessions, name)

	return s.save()
}

// List returns all sessions, newest first
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	return sessions
}

// Count returns the total number of sessions
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
