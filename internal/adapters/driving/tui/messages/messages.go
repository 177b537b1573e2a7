// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowse is the filter box and card list.
	ViewBrowse ViewType = iota
	// ViewDetail shows one newsletter.
	ViewDetail
	// ViewHelp lists keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// DocumentSelected opens a newsletter in the detail view.
type DocumentSelected struct {
	Document domain.Document
}

// ReloadRequested asks the app to re-run ingestion.
type ReloadRequested struct{}

// CollectionReloaded reports the outcome of an ingestion run.
type CollectionReloaded struct {
	Result *domain.IngestResult
	Err    error
}

// SourceChanged is sent by the watcher when local content changes.
type SourceChanged struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
