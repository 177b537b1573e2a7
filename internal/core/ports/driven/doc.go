// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ManifestSource: Lists the identifiers to ingest
//   - ByteFetcher: Fetches raw bytes for one identifier
//   - Converter: Extracts text and markup from document bytes
//   - ConverterRegistry: Selects the converter by extension
//   - MarkupPipeline: Ordered markup normalisation
//   - CollectionStore: Holds the session's collection
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ChangeWatcher: Triggers re-ingestion when local content changes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, converter, or transform package
package driven
