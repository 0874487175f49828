// Package evidence persists benchmark runs as JSON so later invocations
// can aggregate across them and fit trends.
package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zen-systems/specroute/pkg/bench"
)

// Store reads and writes runs under a base directory, one
// <run-id>.json file per run.
type Store struct {
	baseDir string
}

// NewStore creates a run store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes the run and returns the file path.
func (s *Store) Save(run *bench.Run) (string, error) {
	if run == nil || run.ID == "" {
		return "", fmt.Errorf("run with an id is required")
	}
	path := filepath.Join(s.baseDir, run.ID+".json")
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads one run by id.
func (s *Store) Load(runID string) (*bench.Run, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID+".json"))
	if err != nil {
		return nil, err
	}
	var run bench.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("corrupt run record %s: %w", runID, err)
	}
	return &run, nil
}

// List returns the stored run ids.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// LoadAll reads every stored run, oldest first. Unreadable records are
// skipped so one corrupt file cannot block aggregation.
func (s *Store) LoadAll() ([]*bench.Run, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}
	runs := make([]*bench.Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.Load(id)
		if err != nil {
			continue
		}
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
	return runs, nil
}
