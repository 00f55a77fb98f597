package vectorstore

// Document represents a passage to be stored in the vector store.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Content is the passage text.
	Content string

	// Metadata contains additional key-value pairs.
	// Common fields: act, source, section, chunk.
	Metadata map[string]interface{}

	// Collection is the target collection name for this document.
	// If empty, the store's default collection is used.
	Collection string
}

// SearchResult represents a search result from the vector store.
type SearchResult struct {
	// ID is the document identifier.
	ID string

	// Content is the passage text.
	Content string

	// Score is the similarity score (higher = more similar).
	Score float32

	// Metadata contains the document metadata.
	Metadata map[string]interface{}
}

// Act returns the statute the passage belongs to, if recorded at ingest time.
func (r SearchResult) Act() string {
	if act, ok := r.Metadata["act"].(string); ok {
		return act
	}
	return ""
}

// Source returns the origin document name, if recorded at ingest time.
func (r SearchResult) Source() string {
	if src, ok := r.Metadata["source"].(string); ok {
		return src
	}
	return ""
}
