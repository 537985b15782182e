package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// Write serializes the corpus to a single JSON file, overwriting any
// existing file at path. HTML escaping is disabled so the Arabic text
// survives byte-for-byte.
func Write(path string, c *Corpus) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	return f.Close()
}

// Read loads a previously written corpus back from disk.
func Read(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	var c Corpus
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	return &c, nil
}
