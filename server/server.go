// Package server exposes the memory engine and scratchpad store as MCP
// tools over the stdio transport. It owns argument decoding, default
// values, and human-readable result rendering; all storage semantics live
// in the memory and scratchpad packages.
package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/memalpha/memalpha/memory"
	"github.com/memalpha/memalpha/scratchpad"
)

// Defaults applied at the tool boundary when the caller omits them.
const (
	defaultSearchLimit = 10
	defaultListLimit   = 100
)

type handlers struct {
	engine *memory.Engine
	pads   *scratchpad.Store
}

// New builds the MCP server with every memory and scratchpad tool
// registered.
func New(engine *memory.Engine, pads *scratchpad.Store, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "memalpha",
		Version: version,
	}, nil)

	h := &handlers{engine: engine, pads: pads}

	mcp.AddTool(server, &mcp.Tool{
		Name: "store_memory",
		Description: "Store a new memory for an agent in a project. " +
			"Memories are automatically embedded for semantic search.",
	}, h.storeMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name: "search_memories",
		Description: "Search for memories using semantic similarity. " +
			"Returns memories ranked by relevance to the query.",
	}, h.searchMemories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_memory",
		Description: "Retrieve a specific memory by its ID.",
	}, h.getMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name: "update_memory",
		Description: "Update an existing memory's content and/or metadata. " +
			"If content is updated, the embedding is automatically regenerated.",
	}, h.updateMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_memory",
		Description: "Delete a memory permanently.",
	}, h.deleteMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_memories",
		Description: "List memories (metadata only, without full content) with pagination. " +
			"Useful for browsing available memories.",
	}, h.listMemories)

	mcp.AddTool(server, &mcp.Tool{
		Name: "get_memory_suggestions",
		Description: "Get suggestions and best practices for structuring memories. " +
			"Returns suggested categories, metadata fields, examples, and tips.",
	}, h.memorySuggestions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_scratchpad",
		Description: "Create a scratch workspace for an agent in a project. Fails if one already exists.",
	}, h.createScratchpad)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_scratchpad",
		Description: "Read the agent's scratch workspace.",
	}, h.getScratchpad)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_scratchpad",
		Description: "Replace the content of the agent's scratch workspace.",
	}, h.updateScratchpad)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_scratchpad",
		Description: "Delete the agent's scratch workspace.",
	}, h.deleteScratchpad)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_scratchpads",
		Description: "List scratch workspaces, optionally filtered by project and/or agent.",
	}, h.listScratchpads)

	return server
}

// textResult wraps plain text in the MCP result shape.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
