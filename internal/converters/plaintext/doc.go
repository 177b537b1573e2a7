// Package plaintext provides the Converter for plain text documents.
package plaintext
