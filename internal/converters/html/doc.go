// Package html provides a Converter for HTML documents.
// Scripts, styles and other non-content elements are removed before the
// body is returned as markup or flattened to text.
package html
