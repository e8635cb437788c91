package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// State tracks which records have been fully migrated (files uploaded and
// mirror row written), keyed by Airtable table. A crashed or interrupted run
// resumes by skipping completed records.
type State struct {
	path string

	mu        sync.Mutex
	completed map[string]map[string]bool
}

// stateFile is the JSON shape on disk. Record IDs are sorted so reruns
// produce stable diffs.
type stateFile struct {
	Completed map[string][]string `json:"completed"`
}

// LoadState reads a state file, returning an empty state when the file does
// not exist yet.
func LoadState(path string) (*State, error) {
	s := &State{
		path:      path,
		completed: make(map[string]map[string]bool),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var file stateFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	for table, records := range file.Completed {
		set := make(map[string]bool, len(records))
		for _, rec := range records {
			set[rec] = true
		}
		s.completed[table] = set
	}
	return s, nil
}

// IsDone reports whether a record has already been migrated.
func (s *State) IsDone(table, recordID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[table][recordID]
}

// MarkDone records completion and persists the state file, so progress
// survives a crash mid-table.
func (s *State) MarkDone(table, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.completed[table]
	if set == nil {
		set = make(map[string]bool)
		s.completed[table] = set
	}
	set[recordID] = true
	return s.save()
}

// CompletedCount returns how many records are recorded done for a table.
func (s *State) CompletedCount(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completed[table])
}

// save writes the file atomically. Must be called while holding s.mu.
func (s *State) save() error {
	file := stateFile{Completed: make(map[string][]string, len(s.completed))}
	for table, set := range s.completed {
		records := make([]string, 0, len(set))
		for rec := range set {
			records = append(records, rec)
		}
		sort.Strings(records)
		file.Completed[table] = records
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
