package verify

import (
	"fmt"

	"github.com/dpshade/quranembed/internal/corpus"
	"github.com/rs/zerolog/log"
)

// Report summarizes what was actually persisted to the output file.
type Report struct {
	TotalVerses         int
	VersesWithEmbedding int
	SuccessRate         float64
	SampleDimensions    int
	SampleValues        []float32
}

// Run reloads the output file from disk, independent of any in-memory
// state, and counts verses with and without embeddings. The first
// verse of the first surah is sampled for dimensionality.
func Run(path string) (*Report, error) {
	c, err := corpus.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload output: %w", err)
	}

	report := &Report{}
	for _, surah := range c.Surahs {
		for i := range surah.Verses {
			report.TotalVerses++
			if surah.Verses[i].HasEmbedding() {
				report.VersesWithEmbedding++
			}
		}
	}

	// An empty corpus has no meaningful success rate; leave it at zero
	// instead of dividing by zero.
	if report.TotalVerses > 0 {
		report.SuccessRate = float64(report.VersesWithEmbedding) / float64(report.TotalVerses) * 100
	}

	if len(c.Surahs) > 0 && len(c.Surahs[0].Verses) > 0 {
		if first := &c.Surahs[0].Verses[0]; first.HasEmbedding() {
			vector := first.Embedding.Vector()
			report.SampleDimensions = len(vector)
			sample := vector
			if len(sample) > 5 {
				sample = sample[:5]
			}
			report.SampleValues = sample
		}
	}

	return report, nil
}

// Log writes the report to the application log.
func (r *Report) Log() {
	log.Info().
		Int("total_verses", r.TotalVerses).
		Int("verses_with_embeddings", r.VersesWithEmbedding).
		Str("success_rate", fmt.Sprintf("%.1f%%", r.SuccessRate)).
		Msg("Verification complete")

	if r.SampleDimensions > 0 {
		log.Info().
			Int("dimensions", r.SampleDimensions).
			Floats32("sample", r.SampleValues).
			Msg("Sample embedding")
	}
}
