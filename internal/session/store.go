package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Store persists one interview session to a JSON file. The file is rewritten
// in full after every turn so an interruption loses at most the in-flight turn.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the persisted state. A missing or unreadable file bootstraps a
// fresh session for the given catalog order instead of failing; the second
// return value reports whether a previous session was resumed.
func (s *Store) Load(variables []string) (State, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("session: could not read %s: %v; bootstrapping fresh state", s.path, err)
		}
		return New(variables), false
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("session: corrupt state in %s: %v; bootstrapping fresh state", s.path, err)
		return New(variables), false
	}
	return st, true
}

// Save rewrites the state file. Callers log the error and continue: a failed
// save never aborts the workflow, only weakens resumability.
func (s *Store) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("session: create state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// Reset removes the persisted state file, if any.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}
