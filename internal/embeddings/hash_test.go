package embeddings

import (
	"math"
	"testing"

	"github.com/dpshade/quranembed/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProviderDeterministic(t *testing.T) {
	p := NewHashProvider(384)

	a, err := p.Embed("In the name of God")
	require.NoError(t, err)
	b, err := p.Embed("In the name of God")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 384)
	assert.Equal(t, 384, p.Dimension())
}

func TestHashProviderDistinctTexts(t *testing.T) {
	p := NewHashProvider(64)

	a, err := p.Embed("Praise be to God")
	require.NoError(t, err)
	b, err := p.Embed("Master of the Day of Judgment")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashProviderUnitLength(t *testing.T) {
	p := NewHashProvider(128)

	vec, err := p.Embed("Guide us to the straight path")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
}

func TestNewProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "hash"

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "hash", p.Name())
	assert.NoError(t, p.Close())

	cfg.Provider = "bogus"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}

func TestMeanPool(t *testing.T) {
	// Two positions, three dims.
	hidden := []float32{1, 2, 3, 3, 4, 5}
	pooled := meanPool(hidden, 2, 3)
	assert.Equal(t, []float32{2, 3, 4}, pooled)
}

func TestNormalize(t *testing.T) {
	vec := normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	zero := normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
