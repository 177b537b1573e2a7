// Package filesystem provides an archive source read from a local
// directory, with the same layout as a remote archive. Local sources can
// be watched so a running session picks up edited documents.
package filesystem
