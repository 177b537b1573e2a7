// Package services implements the driving port interfaces.
// Services hold the ingestion pipeline, the title/excerpt/date heuristics
// and the read side of the archive, and call out only through driven ports.
package services
