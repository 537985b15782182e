package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LoadDirectory reads the per-surah JSON files (1.json .. 114.json)
// from dir, in ascending surah order. Missing files are skipped with a
// warning; a file that exists but cannot be parsed aborts the load.
// Returns the loaded surahs and the total verse count across them.
func LoadDirectory(dir string) ([]*Surah, int, error) {
	var surahs []*Surah
	totalVerses := 0

	for id := 1; id <= MaxSurahs; id++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.json", id))
		if _, err := os.Stat(path); err != nil {
			log.Warn().Str("path", path).Msg("Surah file not found, skipping")
			continue
		}

		surah, err := loadSurah(path, id)
		if err != nil {
			return nil, 0, fmt.Errorf("surah %d: %w", id, err)
		}

		surahs = append(surahs, surah)
		totalVerses += len(surah.Verses)
	}

	return surahs, totalVerses, nil
}

// loadSurah parses a single surah file and checks the fields the
// pipeline depends on: name, transliteration, a verses array, and a
// translation plus id per verse. Anything else passes through as-is.
func loadSurah(path string, id int) (*Surah, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var surah Surah
	if err := json.Unmarshal(data, &surah); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	if surah.ID == 0 {
		surah.ID = id
	}
	if surah.Name == "" {
		return nil, fmt.Errorf("missing required field %q", "name")
	}
	if surah.Transliteration == "" {
		return nil, fmt.Errorf("missing required field %q", "transliteration")
	}
	if surah.Verses == nil {
		return nil, fmt.Errorf("missing required field %q", "verses")
	}
	for i := range surah.Verses {
		v := &surah.Verses[i]
		if v.ID == 0 {
			return nil, fmt.Errorf("verse %d: missing required field %q", i, "id")
		}
		if v.Translation == "" {
			return nil, fmt.Errorf("verse %d: missing required field %q", v.ID, "translation")
		}
	}

	return &surah, nil
}
