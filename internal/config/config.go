package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DataDir    string `yaml:"data_dir"`
	OutputFile string `yaml:"output_file"`
	ModelDir   string `yaml:"model_dir"`
	Provider   string `yaml:"provider"`
	Workers    int    `yaml:"workers"`
	Port       string `yaml:"port"`
	Debug      bool   `yaml:"-"`

	Model ModelConfig `yaml:"model"`
}

// ModelConfig contains model-specific configuration
type ModelConfig struct {
	// RepoID is the HuggingFace repository holding the ONNX export
	// and SentencePiece tokenizer of the sentence-embedding model.
	RepoID       string `yaml:"repo_id"`
	Dimensions   int    `yaml:"dimensions"`
	MaxSeqLength int    `yaml:"max_seq_length"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		DataDir:    "./data",
		OutputFile: "quran_with_embeddings.json",
		ModelDir:   "./models",
		Provider:   "onnx",
		Workers:    1,
		Port:       "8080",
		Model: ModelConfig{
			RepoID:       "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2",
			Dimensions:   384,
			MaxSeqLength: 128,
		},
	}
}

// Load reads a config from the given path. A missing file is not an
// error; the defaults are returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills in zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = def.OutputFile
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = def.ModelDir
	}
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if cfg.Model.RepoID == "" {
		cfg.Model.RepoID = def.Model.RepoID
	}
	if cfg.Model.Dimensions <= 0 {
		cfg.Model.Dimensions = def.Model.Dimensions
	}
	if cfg.Model.MaxSeqLength <= 0 {
		cfg.Model.MaxSeqLength = def.Model.MaxSeqLength
	}
}
