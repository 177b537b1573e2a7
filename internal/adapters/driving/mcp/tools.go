package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

const defaultLimit = 10

// SearchInput is the input schema for search_newsletters.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"text to look for in titles, excerpts and bodies"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Offset int    `json:"offset,omitempty" jsonschema:"number of results to skip"`
}

// SearchOutput is the output schema for search_newsletters.
type SearchOutput struct {
	Results []NewsletterSummary `json:"results"`
	Count   int                 `json:"count"`
	Total   int                 `json:"total"`
}

// ListInput is the input schema for list_newsletters.
type ListInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of newsletters to return (default 10)"`
	Offset int `json:"offset,omitempty" jsonschema:"number of newsletters to skip"`
}

// ListOutput is the output schema for list_newsletters.
type ListOutput struct {
	Newsletters []NewsletterSummary `json:"newsletters"`
	Total       int                 `json:"total"`
	Status      string              `json:"status,omitempty"`
}

// GetInput is the input schema for get_newsletter.
type GetInput struct {
	ID     string `json:"id" jsonschema:"the newsletter id from search or list results"`
	Markup bool   `json:"markup,omitempty" jsonschema:"return the HTML body instead of plain text"`
}

// GetOutput is the output schema for get_newsletter.
type GetOutput struct {
	Newsletter NewsletterSummary `json:"newsletter"`
	Body       string            `json:"body"`
	Format     string            `json:"format"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// NewsletterSummary is the card view of one newsletter.
type NewsletterSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Source      string   `json:"source"`
	Placeholder bool     `json:"placeholder,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

func summarise(doc *domain.Document) NewsletterSummary {
	return NewsletterSummary{
		ID:          doc.ID,
		Title:       doc.Title,
		Date:        doc.Date.Format(time.DateOnly),
		Excerpt:     doc.Excerpt,
		Source:      doc.SourceRef,
		Placeholder: doc.IsPlaceholder,
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_newsletters",
		Description: "Search newsletter issues by case-insensitive text match, newest first",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_newsletters",
		Description: "List newsletter issues, newest first",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_newsletter",
		Description: "Read one newsletter issue by id",
	}, s.handleGet)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	total := len(s.ports.Archive.Filter(ctx, input.Query))
	results := s.ports.Archive.Search(ctx, input.Query, domain.SearchOptions{
		Limit:  limit,
		Offset: max(input.Offset, 0),
	})

	output := SearchOutput{
		Results: make([]NewsletterSummary, len(results)),
		Count:   len(results),
		Total:   total,
	}
	for i := range results {
		output.Results[i] = summarise(&results[i].Document)
		output.Results[i].Highlights = results[i].Highlights
	}

	return nil, output, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	all := s.ports.Archive.All(ctx)
	output := ListOutput{Newsletters: []NewsletterSummary{}, Total: len(all)}

	if status := s.ports.Archive.Status(ctx); status.Empty {
		output.Status = emptyStatus(status)
	}

	start := min(max(input.Offset, 0), len(all))
	end := min(start+limit, len(all))
	for i := start; i < end; i++ {
		output.Newsletters = append(output.Newsletters, summarise(&all[i]))
	}

	return nil, output, nil
}

func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, GetOutput, error) {
	if input.ID == "" {
		return nil, GetOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Archive.Get(ctx, input.ID)
	if err != nil {
		return nil, GetOutput{}, err
	}

	output := GetOutput{
		Newsletter: summarise(doc),
		Body:       doc.RawText,
		Format:     "text",
		Warnings:   doc.Warnings,
	}
	if input.Markup && doc.ContentIsMarkup {
		output.Body = doc.Content
		output.Format = "html"
	}

	return nil, output, nil
}

// emptyStatus explains why the archive has nothing to show.
func emptyStatus(status domain.ArchiveStatus) string {
	return status.Reason()
}
