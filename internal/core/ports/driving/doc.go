// Package driving defines the interfaces the CLI, TUI and MCP server use to
// reach the archive.
//
//   - ArchiveService: Reads, filters and reloads the current collection
//   - Ingester: Runs the manifest-to-collection pipeline once
//   - SettingsService: Effective settings and the config file
//
// Implementations live in internal/core/services.
package driving
