package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/memalpha/memalpha/memory"
)

type storeMemoryParams struct {
	ProjectID string         `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string         `json:"agent_id" jsonschema:"Agent identifier (required)"`
	Content   string         `json:"content" jsonschema:"Memory content - be specific and descriptive (required)"`
	Metadata  map[string]any `json:"metadata,omitempty" jsonschema:"Optional custom metadata (tags, category, importance, etc.)"`
}

func (h *handlers) storeMemory(ctx context.Context, req *mcp.CallToolRequest, params *storeMemoryParams) (*mcp.CallToolResult, any, error) {
	mem, err := h.engine.Store(ctx, memory.CreateRequest{
		ProjectID: params.ProjectID,
		AgentID:   params.AgentID,
		Content:   params.Content,
		Metadata:  params.Metadata,
	})
	if err != nil {
		return nil, nil, err
	}

	text := fmt.Sprintf("Memory stored successfully!\n\n"+
		"Memory ID: %s\n"+
		"Content: %s\n"+
		"Metadata: %s\n"+
		"Embedding: %s/%s",
		mem.ID, mem.Content, renderMetadata(mem.Metadata),
		mem.EmbeddingProvider, mem.EmbeddingModel)
	return textResult(text), nil, nil
}

type searchMemoriesParams struct {
	ProjectID string         `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string         `json:"agent_id" jsonschema:"Agent identifier (required)"`
	Query     string         `json:"query" jsonschema:"Search query (required)"`
	Limit     *int           `json:"limit,omitempty" jsonschema:"Maximum number of results (default: 10)"`
	Filters   map[string]any `json:"filters,omitempty" jsonschema:"Optional metadata filters (field equals value)"`
}

func (h *handlers) searchMemories(ctx context.Context, req *mcp.CallToolRequest, params *searchMemoriesParams) (*mcp.CallToolResult, any, error) {
	limit := defaultSearchLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	results, err := h.engine.Search(ctx, params.ProjectID, params.AgentID,
		params.Query, limit, memory.EqualFilters(params.Filters))
	if err != nil {
		return nil, nil, err
	}

	if len(results) == 0 {
		return textResult("No memories found matching your query."), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d relevant memories:\n\n", len(results))
	for i, result := range results {
		fmt.Fprintf(&sb, "%d. [Score: %.3f] (ID: %s)\n   %s\n   Metadata: %s\n\n",
			i+1, result.Similarity, result.Memory.ID,
			result.Memory.Content, renderMetadata(result.Memory.Metadata))
	}
	return textResult(sb.String()), nil, nil
}

type getMemoryParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string `json:"agent_id" jsonschema:"Agent identifier (required)"`
	MemoryID  string `json:"memory_id" jsonschema:"Memory identifier (required)"`
}

func (h *handlers) getMemory(ctx context.Context, req *mcp.CallToolRequest, params *getMemoryParams) (*mcp.CallToolResult, any, error) {
	mem, err := h.engine.Get(ctx, params.ProjectID, params.AgentID, memory.ID(params.MemoryID))
	if err != nil {
		return nil, nil, err
	}
	if mem == nil {
		return textResult(fmt.Sprintf("Memory with ID '%s' not found.", params.MemoryID)), nil, nil
	}

	text := fmt.Sprintf("Memory ID: %s\n"+
		"Content: %s\n"+
		"Metadata: %s\n"+
		"Created: %s\n"+
		"Updated: %s\n"+
		"Embedding: %s/%s",
		mem.ID, mem.Content, renderMetadata(mem.Metadata),
		mem.CreatedAt.Format("2006-01-02 15:04:05"),
		mem.UpdatedAt.Format("2006-01-02 15:04:05"),
		mem.EmbeddingProvider, mem.EmbeddingModel)
	return textResult(text), nil, nil
}

type updateMemoryParams struct {
	ProjectID string         `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string         `json:"agent_id" jsonschema:"Agent identifier (required)"`
	MemoryID  string         `json:"memory_id" jsonschema:"Memory identifier (required)"`
	Content   *string        `json:"content,omitempty" jsonschema:"Updated content (optional)"`
	Metadata  map[string]any `json:"metadata,omitempty" jsonschema:"Updated metadata, replaces the stored mapping (optional)"`
}

func (h *handlers) updateMemory(ctx context.Context, req *mcp.CallToolRequest, params *updateMemoryParams) (*mcp.CallToolResult, any, error) {
	mem, err := h.engine.Update(ctx, params.ProjectID, params.AgentID,
		memory.ID(params.MemoryID), memory.UpdateRequest{
			Content:  params.Content,
			Metadata: params.Metadata,
		})
	if err != nil {
		return nil, nil, err
	}
	if mem == nil {
		return textResult(fmt.Sprintf("Memory with ID '%s' not found.", params.MemoryID)), nil, nil
	}

	text := fmt.Sprintf("Memory updated successfully!\n\n"+
		"Memory ID: %s\n"+
		"Content: %s\n"+
		"Metadata: %s\n"+
		"Updated: %s",
		mem.ID, mem.Content, renderMetadata(mem.Metadata),
		mem.UpdatedAt.Format("2006-01-02 15:04:05"))
	return textResult(text), nil, nil
}

type deleteMemoryParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string `json:"agent_id" jsonschema:"Agent identifier (required)"`
	MemoryID  string `json:"memory_id" jsonschema:"Memory identifier (required)"`
}

func (h *handlers) deleteMemory(ctx context.Context, req *mcp.CallToolRequest, params *deleteMemoryParams) (*mcp.CallToolResult, any, error) {
	if h.engine.Delete(ctx, params.ProjectID, params.AgentID, memory.ID(params.MemoryID)) {
		return textResult(fmt.Sprintf("Memory '%s' deleted successfully.", params.MemoryID)), nil, nil
	}
	return textResult(fmt.Sprintf("Failed to delete memory '%s'.", params.MemoryID)), nil, nil
}

type listMemoriesParams struct {
	ProjectID string         `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string         `json:"agent_id" jsonschema:"Agent identifier (required)"`
	Limit     *int           `json:"limit,omitempty" jsonschema:"Maximum number of results (default: 100)"`
	Offset    int            `json:"offset,omitempty" jsonschema:"Offset for pagination (default: 0)"`
	Filters   map[string]any `json:"filters,omitempty" jsonschema:"Optional metadata filters (field equals value)"`
}

func (h *handlers) listMemories(ctx context.Context, req *mcp.CallToolRequest, params *listMemoriesParams) (*mcp.CallToolResult, any, error) {
	limit := defaultListLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	metadatas, err := h.engine.List(ctx, params.ProjectID, params.AgentID,
		limit, params.Offset, memory.EqualFilters(params.Filters))
	if err != nil {
		return nil, nil, err
	}

	if len(metadatas) == 0 {
		return textResult("No memories found."), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d memories:\n\n", len(metadatas))
	for _, md := range metadatas {
		fmt.Fprintf(&sb, "- ID: %s\n  Metadata: %s\n  Created: %s\n  Updated: %s\n\n",
			md.ID, renderMetadata(md.Metadata),
			md.CreatedAt.Format("2006-01-02 15:04:05"),
			md.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return textResult(sb.String()), nil, nil
}

// renderMetadata renders a metadata mapping compactly for tool output.
func renderMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return "{}"
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Sprintf("%v", metadata)
	}
	return string(data)
}
