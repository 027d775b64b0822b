package server

import (
	"context"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// The suggestions payload is static guidance for callers; it touches no
// store and carries no state.

var suggestedCategories = []string{
	"fact",       // factual information about the project
	"procedure",  // how to do something
	"preference", // user/team preferences
	"context",    // project context and background
	"decision",   // important decisions made
	"issue",      // problems and their solutions
}

var metadataFieldHints = []struct{ field, desc string }{
	{"tags", "List of tags for categorization (e.g., ['backend', 'api'])"},
	{"category", "One of the suggested categories above"},
	{"importance", "Integer 0-10 indicating importance"},
	{"source", "Where this information came from"},
	{"related_to", "IDs of related memories"},
}

var suggestionExamples = []struct{ content, metadata string }{
	{
		"User prefers TypeScript over JavaScript for type safety",
		`{"category": "preference", "tags": ["language", "typescript"], "importance": 8}`,
	},
	{
		"Authentication implemented using JWT with 7-day expiry",
		`{"category": "fact", "tags": ["security", "auth", "jwt"], "importance": 9}`,
	},
	{
		"To deploy: run 'yarn build' then 'yarn deploy:prod'",
		`{"category": "procedure", "tags": ["deployment", "commands"], "importance": 7}`,
	},
}

var bestPractices = []string{
	"Store specific, actionable information",
	"Use consistent tagging across related memories",
	"Mark important decisions with high importance scores",
	"Include context in the content, not just facts",
	"Update memories when information changes rather than creating duplicates",
	"Use descriptive content that will match semantic searches",
}

type memorySuggestionsParams struct{}

func (h *handlers) memorySuggestions(ctx context.Context, req *mcp.CallToolRequest, params *memorySuggestionsParams) (*mcp.CallToolResult, any, error) {
	var sb strings.Builder

	sb.WriteString("Memory Structure Suggestions\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString("Suggested Categories:\n")
	for _, category := range suggestedCategories {
		sb.WriteString("  - " + category + "\n")
	}

	sb.WriteString("\nRecommended Metadata Fields:\n")
	for _, hint := range metadataFieldHints {
		sb.WriteString("  - " + hint.field + ": " + hint.desc + "\n")
	}

	sb.WriteString("\nExamples:\n")
	for i, example := range suggestionExamples {
		sb.WriteString("\n")
		sb.WriteString(strconv.Itoa(i+1) + ". Content: " + example.content + "\n")
		sb.WriteString("   Metadata: " + example.metadata + "\n")
	}

	sb.WriteString("\nBest Practices:\n")
	for _, tip := range bestPractices {
		sb.WriteString("  - " + tip + "\n")
	}

	return textResult(sb.String()), nil, nil
}
