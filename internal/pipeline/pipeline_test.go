package pipeline

import (
	"errors"
	"testing"

	"github.com/dpshade/quranembed/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns a vector whose first component encodes the text
// length, so each verse's embedding is distinguishable.
type stubProvider struct {
	dims    int
	failFor map[string]bool
}

func (s *stubProvider) Name() string   { return "stub" }
func (s *stubProvider) Dimension() int { return s.dims }
func (s *stubProvider) Close() error   { return nil }

func (s *stubProvider) Embed(text string) ([]float32, error) {
	if s.failFor[text] {
		return nil, errors.New("provider exploded")
	}
	vec := make([]float32, s.dims)
	vec[0] = float32(len(text))
	return vec, nil
}

func testSurahs() []*corpus.Surah {
	return []*corpus.Surah{
		{
			ID:              1,
			Name:            "الفاتحة",
			Transliteration: "Al-Fatihah",
			Verses: []corpus.Verse{
				{ID: 1, Translation: "In the name of God"},
				{ID: 2, Translation: "Praise be to God"},
			},
		},
	}
}

func TestRunEmbedsEveryVerse(t *testing.T) {
	surahs := testSurahs()
	p := New(&stubProvider{dims: 384}, 1)

	stats := p.Run(surahs, 2)

	assert.Equal(t, 2, stats.TotalVerses)
	assert.Equal(t, 2, stats.Embedded)
	assert.Zero(t, stats.Failed)

	for i := range surahs[0].Verses {
		v := &surahs[0].Verses[i]
		require.True(t, v.HasEmbedding(), "verse %d", v.ID)
		assert.Len(t, v.Embedding.Vector(), 384)
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	surahs := testSurahs()
	provider := &stubProvider{
		dims:    384,
		failFor: map[string]bool{"Praise be to God": true},
	}

	stats := New(provider, 1).Run(surahs, 2)

	assert.Equal(t, 1, stats.Embedded)
	assert.Equal(t, 1, stats.Failed)

	first := &surahs[0].Verses[0]
	require.True(t, first.HasEmbedding())

	second := &surahs[0].Verses[1]
	require.NotNil(t, second.Embedding)
	assert.False(t, second.Embedding.OK())
	assert.Contains(t, second.Embedding.Reason(), "provider exploded")
}

func TestRunWithWorkersMatchesSequential(t *testing.T) {
	translations := []string{
		"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "ggggggg",
	}

	build := func() []*corpus.Surah {
		var verses []corpus.Verse
		for i, tr := range translations {
			verses = append(verses, corpus.Verse{ID: i + 1, Translation: tr})
		}
		return []*corpus.Surah{{ID: 2, Name: "البقرة", Transliteration: "Al-Baqarah", Verses: verses}}
	}

	sequential := build()
	New(&stubProvider{dims: 4}, 1).Run(sequential, len(translations))

	parallel := build()
	stats := New(&stubProvider{dims: 4}, 4).Run(parallel, len(translations))

	assert.Equal(t, len(translations), stats.Embedded)
	for i := range translations {
		want := sequential[0].Verses[i].Embedding.Vector()
		got := parallel[0].Verses[i].Embedding.Vector()
		assert.Equal(t, want, got, "verse %d", i+1)
	}
}

func TestNewClampsWorkers(t *testing.T) {
	p := New(&stubProvider{dims: 4}, 0)
	assert.Equal(t, 1, p.workers)
}
