// Package mcp exposes the newsletter archive over the Model Context
// Protocol, so assistants can search and read issues.
package mcp

import "errors"

// ErrMissingArchiveService is returned when the archive service is not provided.
var ErrMissingArchiveService = errors.New("mcp: archive service is required")
