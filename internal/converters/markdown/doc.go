// Package markdown provides a Converter for markdown documents.
package markdown
