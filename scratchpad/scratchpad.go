// Package scratchpad persists one mutable workspace document per
// (project_id, agent_id) scope as a JSON file. It is deliberately much
// simpler than the vector-backed memory store: no embeddings, no search,
// a single record per scope.
package scratchpad

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrMissingProjectID = goerr.New("project_id is required")
	ErrMissingAgentID   = goerr.New("agent_id is required")
)

// Scratchpad is one agent's workspace within one project.
type Scratchpad struct {
	ProjectID string    `json:"project_id"`
	AgentID   string    `json:"agent_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps scratchpads as JSON files under a data directory.
type Store struct {
	dataDir string
}

// New creates a scratchpad store rooted at dataDir, creating the directory
// if missing.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create scratchpad directory", goerr.V("path", dataDir))
	}
	return &Store{dataDir: dataDir}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

func (s *Store) filepath(projectID, agentID string) string {
	safeProject := unsafeFileChars.ReplaceAllString(projectID, "_")
	safeAgent := unsafeFileChars.ReplaceAllString(agentID, "_")
	return filepath.Join(s.dataDir, safeProject+"_"+safeAgent+".json")
}

// Create writes a new scratchpad. Returns (nil, nil) when one already
// exists for the scope.
func (s *Store) Create(projectID, agentID, content string) (*Scratchpad, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}

	path := s.filepath(projectID, agentID)
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	now := time.Now().UTC()
	pad := &Scratchpad{
		ProjectID: projectID,
		AgentID:   agentID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(pad); err != nil {
		return nil, err
	}
	return pad, nil
}

// Get returns the scope's scratchpad, or (nil, nil) when none exists.
func (s *Store) Get(projectID, agentID string) (*Scratchpad, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}
	return s.load(s.filepath(projectID, agentID)), nil
}

// Update replaces the scratchpad content and bumps updated_at. Returns
// (nil, nil) when the scope has no scratchpad.
func (s *Store) Update(projectID, agentID, content string) (*Scratchpad, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}

	existing := s.load(s.filepath(projectID, agentID))
	if existing == nil {
		return nil, nil
	}

	updated := &Scratchpad{
		ProjectID: existing.ProjectID,
		AgentID:   existing.AgentID,
		Content:   content,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the scope's scratchpad, reporting false when there was
// nothing to remove or the removal failed.
func (s *Store) Delete(projectID, agentID string) bool {
	if validateScope(projectID, agentID) != nil {
		return false
	}

	path := s.filepath(projectID, agentID)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return os.Remove(path) == nil
}

// List returns all scratchpads, optionally filtered by project and/or
// agent. Unreadable files are skipped.
func (s *Store) List(projectID, agentID string) ([]*Scratchpad, error) {
	paths, err := filepath.Glob(filepath.Join(s.dataDir, "*.json"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list scratchpads")
	}

	var pads []*Scratchpad
	for _, path := range paths {
		pad := s.load(path)
		if pad == nil {
			continue
		}
		if projectID != "" && pad.ProjectID != projectID {
			continue
		}
		if agentID != "" && pad.AgentID != agentID {
			continue
		}
		pads = append(pads, pad)
	}
	return pads, nil
}

func (s *Store) save(pad *Scratchpad) error {
	data, err := json.MarshalIndent(pad, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to serialize scratchpad")
	}
	path := s.filepath(pad.ProjectID, pad.AgentID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write scratchpad", goerr.V("path", path))
	}
	return nil
}

// load returns nil for missing or corrupt files; callers treat both as
// absence.
func (s *Store) load(path string) *Scratchpad {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var pad Scratchpad
	if err := json.Unmarshal(data, &pad); err != nil {
		return nil
	}
	if pad.ProjectID == "" || pad.AgentID == "" {
		return nil
	}
	return &pad
}

func validateScope(projectID, agentID string) error {
	if projectID == "" {
		return ErrMissingProjectID
	}
	if agentID == "" {
		return ErrMissingAgentID
	}
	return nil
}
