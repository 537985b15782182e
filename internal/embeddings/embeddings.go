package embeddings

import (
	"fmt"
	"math"

	"github.com/dpshade/quranembed/internal/config"
)

// Provider converts free text into a fixed-length embedding vector.
// A provider is constructed once at startup, passed into the pipeline,
// and closed at process end.
type Provider interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float32, error)
	Close() error
}

// NewProvider constructs the provider selected by the configuration.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case "onnx":
		return NewONNXProvider(cfg)
	case "hash":
		return NewHashProvider(cfg.Model.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// normalize normalizes a vector to unit length
func normalize(vec []float32) []float32 {
	var sum float32
	for _, v := range vec {
		sum += v * v
	}

	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(float64(sum)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}

	return normalized
}
