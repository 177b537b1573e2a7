package tui

import "errors"

// ErrMissingArchiveService is returned when the archive service is not provided.
var ErrMissingArchiveService = errors.New("tui: archive service is required")
