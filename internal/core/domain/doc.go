// Package domain defines the core entities of the newsletter archive.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One ingested newsletter with its derived title, date and excerpt
//   - Collection: The date-ordered set of documents from one ingestion run
//   - RawDocument: Opaque bytes fetched for one manifest identifier
//   - IngestResult: A collection plus the failures that produced it
//   - Settings: Source, ingestion and heuristic configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
