package port

// Model is an opaque pretrained feature-extraction model. Implementations can
// use different inference runtimes while maintaining a consistent interface.
type Model interface {
	// Run executes one inference pass. The input is a single normalized
	// image in channel-major layout with an implicit batch dimension of 1;
	// the output is the raw model output, flattened.
	Run(input []float32) ([]float32, error)

	// Dimension returns the length of the vectors produced by Run.
	Dimension() int

	// Close releases resources held by the underlying runtime.
	Close() error
}
