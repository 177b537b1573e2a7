// Package converters provides the Converter registry and the built-in
// Converter implementations for each document format. Each converter
// knows how to extract text and markup from one family of file
// extensions.
//
// Converters are registered with the Registry at startup.
package converters
