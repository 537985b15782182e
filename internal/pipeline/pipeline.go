package pipeline

import (
	"fmt"
	"sync/atomic"

	"github.com/dpshade/quranembed/internal/corpus"
	"github.com/dpshade/quranembed/internal/embeddings"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes a pipeline run.
type Stats struct {
	TotalVerses int
	Embedded    int
	Failed      int
}

// Pipeline attaches an embedding to every verse of every surah, in
// surah-ascending then verse order. A provider failure marks the verse
// as failed and the run continues; nothing is retried.
type Pipeline struct {
	provider embeddings.Provider
	workers  int
}

// New creates a pipeline over the given provider. workers bounds the
// number of concurrent provider calls; 1 means fully sequential.
func New(provider embeddings.Provider, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{provider: provider, workers: workers}
}

// Run embeds every verse in place. totalVerses is the loader's count,
// used only for progress reporting. Per-verse failures never abort the
// run; the returned stats record how many verses succeeded.
func (p *Pipeline) Run(surahs []*corpus.Surah, totalVerses int) *Stats {
	var embedded, failed atomic.Int64

	for _, surah := range surahs {
		log.Info().
			Int("surah", surah.ID).
			Str("name", surah.Name).
			Str("transliteration", surah.Transliteration).
			Int("verses", len(surah.Verses)).
			Msg("Processing surah")

		if p.workers == 1 {
			for i := range surah.Verses {
				p.embedVerse(surah, &surah.Verses[i], totalVerses, &embedded, &failed)
			}
		} else {
			// Verses within a surah run concurrently; each result
			// lands in its own verse slot, so output order is the
			// sequential one.
			g := new(errgroup.Group)
			g.SetLimit(p.workers)
			for i := range surah.Verses {
				verse := &surah.Verses[i]
				g.Go(func() error {
					p.embedVerse(surah, verse, totalVerses, &embedded, &failed)
					return nil
				})
			}
			g.Wait()
		}

		log.Info().Int("surah", surah.ID).Msg("Completed surah")
	}

	return &Stats{
		TotalVerses: totalVerses,
		Embedded:    int(embedded.Load()),
		Failed:      int(failed.Load()),
	}
}

// embedVerse makes the single provider call for one verse and attaches
// the outcome.
func (p *Pipeline) embedVerse(surah *corpus.Surah, verse *corpus.Verse, totalVerses int, embedded, failed *atomic.Int64) {
	vector, err := p.provider.Embed(verse.Translation)
	if err != nil {
		verse.Embedding = corpus.Failed(err.Error())
		failed.Add(1)
		log.Error().
			Err(err).
			Int("surah", surah.ID).
			Int("verse", verse.ID).
			Msg("Failed to embed verse")
		return
	}

	verse.Embedding = corpus.Ok(vector)
	n := embedded.Add(1)
	progress := float64(n) / float64(totalVerses) * 100
	log.Info().
		Int("surah", surah.ID).
		Int("verse", verse.ID).
		Str("progress", fmt.Sprintf("%d/%d (%.1f%%)", n, totalVerses, progress)).
		Msg("Verse embedded")
}
