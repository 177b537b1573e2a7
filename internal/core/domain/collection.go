package domain

import "sort"

// Collection is the ordered, read-only set of ingested documents.
// Documents are sorted by Date descending; documents with equal dates
// keep the order they were given in.
type Collection struct {
	docs  []Document
	index map[string]int
}

// NewCollection builds a collection from docs.
// If two documents share an ID only the first one is kept.
func NewCollection(docs []Document) *Collection {
	unique := make([]Document, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for i := range docs {
		if seen[docs[i].ID] {
			continue
		}
		seen[docs[i].ID] = true
		unique = append(unique, docs[i].Clone())
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Date.After(unique[j].Date)
	})

	index := make(map[string]int, len(unique))
	for i := range unique {
		index[unique[i].ID] = i
	}

	return &Collection{docs: unique, index: index}
}

// EmptyCollection returns a collection with no documents.
func EmptyCollection() *Collection {
	return NewCollection(nil)
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.docs)
}

// All returns a copy of every document in collection order.
func (c *Collection) All() []Document {
	if c == nil {
		return []Document{}
	}
	out := make([]Document, len(c.docs))
	for i := range c.docs {
		out[i] = c.docs[i].Clone()
	}
	return out
}

// At returns the document at position i.
func (c *Collection) At(i int) Document {
	return c.docs[i].Clone()
}

// Get returns the document with the given ID.
func (c *Collection) Get(id string) (Document, bool) {
	if c == nil {
		return Document{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Document{}, false
	}
	return c.docs[i].Clone(), true
}

// Placeholders returns the number of placeholder documents.
func (c *Collection) Placeholders() int {
	if c == nil {
		return 0
	}
	n := 0
	for i := range c.docs {
		if c.docs[i].IsPlaceholder {
			n++
		}
	}
	return n
}
