package domain

// MetaPath is the metadata key carrying the originating file path of a record.
const MetaPath = "path"

// RecordID identifies a record inside the vector store. IDs are assigned by
// the store at insertion time; the store owns them.
type RecordID uint32

// Embedding is a flat feature vector produced by the extractor. Its length is
// fixed for a given model and must match the store's configured dimension.
type Embedding []float32

// Metadata is attached to a record at insertion and read back verbatim at
// query time.
type Metadata map[string]string

// Tensor is a normalized image in channel-major (CHW) layout, ready for
// inference. Data holds Channels*Height*Width values.
type Tensor struct {
	Data     []float32
	Channels int
	Height   int
	Width    int
}

// QueryResult is a single nearest-neighbor match.
type QueryResult struct {
	ID       RecordID
	Distance float32
	Metadata Metadata
}
