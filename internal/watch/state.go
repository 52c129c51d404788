package watch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultStatePath is used when no state file is configured.
const DefaultStatePath = "~/.wrapped/watch-state.json"

// State tracks which exports have been turned into reports, keyed by content hash,
// so restarts and duplicate copies of the same export are skipped.
type State struct {
	StartedAt time.Time         `json:"started_at"`
	LastRunAt time.Time         `json:"last_run_at"`
	Processed map[string]string `json:"processed"` // sha256 -> output dir
	Errors    []string          `json:"errors"`

	path string // not serialized
}

// LoadState loads the state file at path, or returns a fresh state if it does not exist.
func LoadState(path string) (*State, error) {
	if path == "" {
		path = DefaultStatePath
	}
	p := expandHome(path)

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{
				StartedAt: time.Now().UTC(),
				Processed: make(map[string]string),
				path:      p,
			}, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if s.Processed == nil {
		s.Processed = make(map[string]string)
	}
	s.path = p
	return &s, nil
}

// Path is where Save writes.
func (s *State) Path() string { return s.path }

// Save persists the state to disk.
func (s *State) Save() error {
	s.LastRunAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return os.WriteFile(s.path, data, 0o644)
}

// IsProcessed reports whether an export with this content hash already has a report.
func (s *State) IsProcessed(hash string) bool {
	_, ok := s.Processed[hash]
	return ok
}

// MarkProcessed records the output directory for a content hash.
func (s *State) MarkProcessed(hash, outDir string) {
	if s.Processed == nil {
		s.Processed = make(map[string]string)
	}
	s.Processed[hash] = outDir
}

// AddError records a processing error.
func (s *State) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
