package domain

// SearchOptions configures a filter query for display.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means no limit.
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// SearchResult represents a single filter hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Highlights contains snippets around the query.
	Highlights []string
}
