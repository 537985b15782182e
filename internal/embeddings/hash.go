package embeddings

import "math"

// HashProvider produces deterministic hash-based unit vectors. It has
// no semantic value; it exists for offline runs and tests where the
// ONNX model is unavailable.
type HashProvider struct {
	dims int
}

// NewHashProvider creates a hash provider with the given dimensionality.
func NewHashProvider(dims int) *HashProvider {
	return &HashProvider{dims: dims}
}

// Name returns the identifier of this provider implementation.
func (p *HashProvider) Name() string { return "hash" }

// Dimension returns the dimensionality of the produced vectors.
func (p *HashProvider) Dimension() int { return p.dims }

// Embed creates a deterministic embedding: the same text always
// produces the same vector.
func (p *HashProvider) Embed(text string) ([]float32, error) {
	embedding := make([]float32, p.dims)

	hash := uint32(0)
	for _, char := range text {
		hash = hash*31 + uint32(char)
	}

	for i := range embedding {
		// Use different hash variations for each dimension
		seed := hash + uint32(i)*2654435761
		// Convert to float in range [-1, 1]
		embedding[i] = (float32(seed)/float32(math.MaxUint32))*2 - 1
	}

	return normalize(embedding), nil
}

// Close is a no-op; the hash provider holds no resources.
func (p *HashProvider) Close() error { return nil }
