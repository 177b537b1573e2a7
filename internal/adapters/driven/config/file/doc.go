// Package file provides the TOML configuration store.
//
// Settings live in config.toml under the newsletter config directory
// (~/.newsletter by default). Tables in the file map to dotted keys, so
//
//	[source]
//	location = "https://news.example.org"
//
// is read back as "source.location".
package file
