package api

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store     CandidateReader
	Questions QuestionGenerator
}

// NewMCPServer creates an MCP server with the TalentScout tools and
// resources registered. Nothing exposed here writes to the store.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"talentscout",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("TalentScout: generate technical assessment questions and review recent candidate submissions."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_questions",
			mcp.WithDescription("Generate four technical interview questions for a candidate's tech stack."),
			mcp.WithString("techStack", mcp.Description("Languages, frameworks and tools the candidate knows"), mcp.Required()),
		),
		mcpGenerateQuestions(deps),
	)

	s.AddTool(
		mcp.NewTool("latest_candidates",
			mcp.WithDescription("List the most recent candidate submissions, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of candidates (default 10, max 100)")),
		),
		mcpLatestCandidates(deps),
	)

	s.AddTool(
		mcp.NewTool("candidate_stats",
			mcp.WithDescription("Summary counts over all stored candidates."),
		),
		mcpCandidateStats(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"candidates://stats",
			"Candidate Statistics",
			mcp.WithResourceDescription("Total, last 24h and last 7d submission counts as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStats(deps),
	)

	return s
}

func mcpGenerateQuestions(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stack, err := req.RequireString("techStack")
		if err != nil {
			return mcpError("techStack is required"), nil
		}
		return mcpText(deps.Questions.Generate(ctx, stack)), nil
	}
}

func mcpLatestCandidates(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", defaultLatestLimit)
		if limit <= 0 {
			limit = defaultLatestLimit
		}
		if limit > maxLatestLimit {
			limit = maxLatestLimit
		}

		type candidateSummary struct {
			Name       string `json:"name"`
			Email      string `json:"email"`
			Position   string `json:"position"`
			Experience int    `json:"experience"`
			TechStack  string `json:"techStack"`
			Timestamp  string `json:"timestamp,omitempty"`
		}

		recs := deps.Store.Latest(limit)
		summaries := make([]candidateSummary, len(recs))
		for i, rec := range recs {
			summaries[i] = candidateSummary{
				Name:       rec.Name,
				Email:      rec.Email,
				Position:   rec.Position,
				Experience: rec.Experience,
				TechStack:  truncate(rec.TechStack, 200),
				Timestamp:  rec.Timestamp,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal candidates: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCandidateStats(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.Store.Stats())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceStats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Store.Stats())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
