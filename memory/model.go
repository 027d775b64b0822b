package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrMissingProjectID = goerr.New("project_id is required")
	ErrMissingAgentID   = goerr.New("agent_id is required")
	ErrEmptyContent     = goerr.New("content cannot be empty")
	ErrInvalidLimit     = goerr.New("limit must not be negative")
	ErrInvalidOffset    = goerr.New("offset must not be negative")
)

type ID string

// NewID generates a new unique memory ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// Memory is the persisted unit: a text payload with caller-defined metadata,
// scoped to one agent within one project and tagged with the embedding
// backend that produced its vector.
type Memory struct {
	ID                ID             `json:"memory_id"`
	ProjectID         string         `json:"project_id"`
	AgentID           string         `json:"agent_id"`
	Content           string         `json:"content"`
	Metadata          map[string]any `json:"metadata"`
	EmbeddingProvider string         `json:"embedding_provider"`
	EmbeddingModel    string         `json:"embedding_model"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// MemoryMetadata is the projection of Memory without content, used by List
// so browsing does not transfer full bodies.
type MemoryMetadata struct {
	ID                ID             `json:"memory_id"`
	ProjectID         string         `json:"project_id"`
	AgentID           string         `json:"agent_id"`
	Metadata          map[string]any `json:"metadata"`
	EmbeddingProvider string         `json:"embedding_provider"`
	EmbeddingModel    string         `json:"embedding_model"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// SearchResult pairs a memory with its similarity to the query, in [0,1],
// higher meaning more similar.
type SearchResult struct {
	Memory     *Memory `json:"memory"`
	Similarity float64 `json:"similarity_score"`
}

// CreateRequest describes a new memory to store.
type CreateRequest struct {
	ProjectID string
	AgentID   string
	Content   string
	Metadata  map[string]any
}

// Validate checks scope and content before any embedding or storage call.
func (r *CreateRequest) Validate() error {
	if r.ProjectID == "" {
		return ErrMissingProjectID
	}
	if r.AgentID == "" {
		return ErrMissingAgentID
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// UpdateRequest describes a partial update. Nil fields keep the stored
// value; a supplied Metadata replaces the stored mapping wholesale.
type UpdateRequest struct {
	Content  *string
	Metadata map[string]any
}

// Validate rejects explicit empty content. Absent fields are fine.
func (r *UpdateRequest) Validate() error {
	if r.Content != nil && strings.TrimSpace(*r.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}
