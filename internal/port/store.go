package port

import "imgsim/internal/domain"

// Include selects which fields the store populates on query results.
type Include uint8

const (
	IncludeID Include = 1 << iota
	IncludeDistance
	IncludeMetadata

	IncludeAll = IncludeID | IncludeDistance | IncludeMetadata
)

// VectorStore stores embedding vectors with attached metadata and answers
// nearest-neighbor queries. A store is bound to a file path and a fixed
// vector dimension at construction.
type VectorStore interface {
	// Load hydrates the store from its path. On failure the in-memory
	// state is left empty and usable.
	Load() error

	// Save persists the current contents to the store's path.
	Save() error

	// Insert adds a vector with metadata and returns the assigned id.
	// Fails if the vector length does not match the store dimension.
	Insert(vec domain.Embedding, meta domain.Metadata) (domain.RecordID, error)

	// Query returns up to k records nearest to the given vector, ordered
	// by ascending distance, with the requested fields populated.
	Query(vec domain.Embedding, k int, include Include) ([]domain.QueryResult, error)

	// Each visits every record's id and metadata.
	Each(fn func(id domain.RecordID, meta domain.Metadata))

	// Reset discards all in-memory records.
	Reset()

	// Count returns the number of records currently held.
	Count() int

	// Dimension returns the configured vector dimension.
	Dimension() int
}
