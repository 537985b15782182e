package corpus

import "encoding/json"

// MaxSurahs is the highest surah number in the Quran.
const MaxSurahs = 114

// Corpus is the consolidated output of a pipeline run: every loaded
// surah with its verses, plus the derived totals.
type Corpus struct {
	TotalSurahs int      `json:"total_surahs"`
	TotalVerses int      `json:"total_verses"`
	Surahs      []*Surah `json:"surahs"`
}

// Surah is one numbered chapter of the source text.
type Surah struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Transliteration string  `json:"transliteration"`
	Translation     string  `json:"translation,omitempty"`
	Type            string  `json:"type,omitempty"`
	TotalVerses     int     `json:"total_verses,omitempty"`
	Verses          []Verse `json:"verses"`
}

// Verse is a single addressable unit of text within a surah. Its
// embedding is attached exactly once, by the pipeline.
type Verse struct {
	ID          int     `json:"id"`
	Text        string  `json:"text,omitempty"`
	Translation string  `json:"translation"`
	Embedding   *Result `json:"embedding"`
}

// HasEmbedding reports whether the verse carries a populated vector.
func (v *Verse) HasEmbedding() bool {
	return v.Embedding != nil && v.Embedding.ok
}

// New assembles a Corpus from loaded surahs and the verse total
// computed by the loader.
func New(surahs []*Surah, totalVerses int) *Corpus {
	return &Corpus{
		TotalSurahs: len(surahs),
		TotalVerses: totalVerses,
		Surahs:      surahs,
	}
}

// Result is the outcome of embedding a single verse: either a vector
// or a failure reason. At the JSON boundary a failure serializes to
// null; the reason is kept only in memory for logging and tests.
type Result struct {
	vector []float32
	reason string
	ok     bool
}

// Ok wraps a successfully computed embedding vector.
func Ok(vector []float32) *Result {
	return &Result{vector: vector, ok: true}
}

// Failed records a per-verse embedding failure.
func Failed(reason string) *Result {
	return &Result{reason: reason}
}

// OK reports whether the result holds a vector.
func (r *Result) OK() bool { return r.ok }

// Vector returns the embedding vector, or nil for a failed result.
func (r *Result) Vector() []float32 {
	if !r.ok {
		return nil
	}
	return r.vector
}

// Reason returns the failure reason, empty for a successful result.
func (r *Result) Reason() string { return r.reason }

// MarshalJSON serializes the vector, or null when the embedding failed.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return []byte("null"), nil
	}
	return json.Marshal(r.vector)
}

// UnmarshalJSON restores a result from a written corpus. A null
// embedding comes back as a failed result with no recorded reason.
func (r *Result) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Result{}
		return nil
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return err
	}
	*r = Result{vector: vector, ok: true}
	return nil
}
