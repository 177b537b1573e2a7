package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "newsletter://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "newsletters",
		Name:        "newsletters",
		Description: "Every newsletter in the archive, newest first",
		MIMEType:    "application/json",
	}, s.handleNewslettersResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Result of the last ingestion run",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "newsletters/{id}",
		Name:        "newsletter-text",
		Description: "Plain-text body of one newsletter",
		MIMEType:    "text/plain",
	}, s.handleNewsletterResource)
}

func (s *Server) handleNewslettersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	all := s.ports.Archive.All(ctx)
	summaries := make([]NewsletterSummary, len(all))
	for i := range all {
		summaries[i] = summarise(&all[i])
	}
	return jsonResource(req.Params.URI, summaries)
}

func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status := s.ports.Archive.Status(ctx)

	type statusInfo struct {
		RunID        string `json:"run_id,omitempty"`
		Total        int    `json:"total"`
		Placeholders int    `json:"placeholders"`
		Failures     int    `json:"failures"`
		Empty        bool   `json:"empty"`
		Message      string `json:"message,omitempty"`
	}

	info := statusInfo{
		RunID:        status.RunID,
		Total:        status.Total,
		Placeholders: status.Placeholders,
		Failures:     status.Failures,
		Empty:        status.Empty,
	}
	if status.Empty {
		info.Message = emptyStatus(status)
	}
	return jsonResource(req.Params.URI, info)
}

func (s *Server) handleNewsletterResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractNewsletterID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Archive.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Title + "\n\n" + doc.RawText,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// NewsletterURI returns the resource URI for a newsletter id.
func NewsletterURI(id string) string {
	return uriScheme + "newsletters/" + url.PathEscape(id)
}

// extractNewsletterID extracts the id from newsletter://newsletters/{id}.
func extractNewsletterID(uri string) string {
	const prefix = uriScheme + "newsletters/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	id, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return id
}
