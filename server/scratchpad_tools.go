package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type createScratchpadParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string `json:"agent_id" jsonschema:"Agent identifier (required)"`
	Content   string `json:"content,omitempty" jsonschema:"Initial content (optional)"`
}

func (h *handlers) createScratchpad(ctx context.Context, req *mcp.CallToolRequest, params *createScratchpadParams) (*mcp.CallToolResult, any, error) {
	pad, err := h.pads.Create(params.ProjectID, params.AgentID, params.Content)
	if err != nil {
		return nil, nil, err
	}
	if pad == nil {
		return textResult(fmt.Sprintf(
			"Scratchpad for project '%s' / agent '%s' already exists. Use update_scratchpad to modify it.",
			params.ProjectID, params.AgentID)), nil, nil
	}
	return textResult(fmt.Sprintf("Scratchpad created for project '%s' / agent '%s'.",
		pad.ProjectID, pad.AgentID)), nil, nil
}

type scratchpadScopeParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string `json:"agent_id" jsonschema:"Agent identifier (required)"`
}

func (h *handlers) getScratchpad(ctx context.Context, req *mcp.CallToolRequest, params *scratchpadScopeParams) (*mcp.CallToolResult, any, error) {
	pad, err := h.pads.Get(params.ProjectID, params.AgentID)
	if err != nil {
		return nil, nil, err
	}
	if pad == nil {
		return textResult(fmt.Sprintf("No scratchpad found for project '%s' / agent '%s'.",
			params.ProjectID, params.AgentID)), nil, nil
	}

	text := fmt.Sprintf("Scratchpad for project '%s' / agent '%s'\n"+
		"Created: %s\nUpdated: %s\n\n%s",
		pad.ProjectID, pad.AgentID,
		pad.CreatedAt.Format("2006-01-02 15:04:05"),
		pad.UpdatedAt.Format("2006-01-02 15:04:05"),
		pad.Content)
	return textResult(text), nil, nil
}

type updateScratchpadParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project identifier (required)"`
	AgentID   string `json:"agent_id" jsonschema:"Agent identifier (required)"`
	Content   string `json:"content" jsonschema:"New content, replaces the current content (required)"`
}

func (h *handlers) updateScratchpad(ctx context.Context, req *mcp.CallToolRequest, params *updateScratchpadParams) (*mcp.CallToolResult, any, error) {
	pad, err := h.pads.Update(params.ProjectID, params.AgentID, params.Content)
	if err != nil {
		return nil, nil, err
	}
	if pad == nil {
		return textResult(fmt.Sprintf(
			"No scratchpad found for project '%s' / agent '%s'. Use create_scratchpad first.",
			params.ProjectID, params.AgentID)), nil, nil
	}
	return textResult(fmt.Sprintf("Scratchpad updated for project '%s' / agent '%s'.",
		pad.ProjectID, pad.AgentID)), nil, nil
}

func (h *handlers) deleteScratchpad(ctx context.Context, req *mcp.CallToolRequest, params *scratchpadScopeParams) (*mcp.CallToolResult, any, error) {
	if h.pads.Delete(params.ProjectID, params.AgentID) {
		return textResult(fmt.Sprintf("Scratchpad deleted for project '%s' / agent '%s'.",
			params.ProjectID, params.AgentID)), nil, nil
	}
	return textResult(fmt.Sprintf("Failed to delete scratchpad for project '%s' / agent '%s'.",
		params.ProjectID, params.AgentID)), nil, nil
}

type listScratchpadsParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Optional project filter"`
	AgentID   string `json:"agent_id,omitempty" jsonschema:"Optional agent filter"`
}

func (h *handlers) listScratchpads(ctx context.Context, req *mcp.CallToolRequest, params *listScratchpadsParams) (*mcp.CallToolResult, any, error) {
	pads, err := h.pads.List(params.ProjectID, params.AgentID)
	if err != nil {
		return nil, nil, err
	}
	if len(pads) == 0 {
		return textResult("No scratchpads found."), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d scratchpads:\n\n", len(pads))
	for _, pad := range pads {
		fmt.Fprintf(&sb, "- Project: %s / Agent: %s\n  Updated: %s\n\n",
			pad.ProjectID, pad.AgentID, pad.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return textResult(sb.String()), nil, nil
}
