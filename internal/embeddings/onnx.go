package embeddings

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/dpshade/quranembed/internal/config"
	"github.com/eliben/go-sentencepiece"
	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

// XLM-RoBERTa reserves the first four vocabulary ids for special
// tokens; raw SentencePiece ids are shifted past them.
const (
	xlmrBOS    = 0
	xlmrEOS    = 2
	xlmrOffset = 1
)

// ONNXProvider runs a multilingual sentence-embedding model locally
// through ONNX Runtime, tokenizing with SentencePiece. Model files are
// downloaded from HuggingFace into the configured model directory on
// first use.
type ONNXProvider struct {
	cfg           *config.Config
	session       *ort.DynamicSession[int64, float32]
	tokenizer     *sentencepiece.Processor
	modelPath     string
	tokenizerPath string
	mu            sync.Mutex
	closed        bool
}

// NewONNXProvider downloads (if needed) and loads the model and
// tokenizer. The load blocks; the returned provider is ready to embed.
func NewONNXProvider(cfg *config.Config) (*ONNXProvider, error) {
	p := &ONNXProvider{
		cfg:           cfg,
		modelPath:     filepath.Join(cfg.ModelDir, "model.onnx"),
		tokenizerPath: filepath.Join(cfg.ModelDir, "sentencepiece.bpe.model"),
	}

	if err := os.MkdirAll(cfg.ModelDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	if err := p.downloadModelFiles(); err != nil {
		return nil, fmt.Errorf("failed to download model files: %w", err)
	}

	if err := p.loadONNXModel(); err != nil {
		return nil, fmt.Errorf("failed to load ONNX model: %w", err)
	}

	if err := p.loadTokenizer(); err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	log.Info().Str("model", cfg.Model.RepoID).Msg("ONNX embedding model loaded successfully")
	return p, nil
}

// Name returns the identifier of this provider implementation.
func (p *ONNXProvider) Name() string { return "onnx" }

// Dimension returns the dimensionality of the produced vectors.
func (p *ONNXProvider) Dimension() int { return p.cfg.Model.Dimensions }

// downloadModelFiles fetches the ONNX export and tokenizer from HuggingFace
func (p *ONNXProvider) downloadModelFiles() error {
	base := fmt.Sprintf("https://huggingface.co/%s/resolve/main", p.cfg.Model.RepoID)
	files := map[string]string{
		p.modelPath:     base + "/onnx/model.onnx",
		p.tokenizerPath: base + "/sentencepiece.bpe.model",
	}

	for filePath, url := range files {
		if _, err := os.Stat(filePath); err == nil {
			log.Debug().Str("path", filePath).Msg("File already exists")
			continue
		}

		log.Info().Str("url", url).Str("path", filePath).Msg("Downloading file...")

		if err := p.downloadFile(url, filePath); err != nil {
			return fmt.Errorf("failed to download %s: %w", filepath.Base(filePath), err)
		}

		log.Info().Str("path", filePath).Msg("File downloaded successfully")
	}

	return nil
}

// downloadFile downloads a file from URL to local path
func (p *ONNXProvider) downloadFile(url, filepath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}

// loadONNXModel loads the ONNX model using ONNX Runtime
func (p *ONNXProvider) loadONNXModel() error {
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	sessionOptions, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("failed to create session options: %w", err)
	}
	defer sessionOptions.Destroy()

	if err := sessionOptions.SetIntraOpNumThreads(4); err != nil {
		log.Warn().Err(err).Msg("Failed to set intra-op threads")
	}

	inputNames := []string{"input_ids", "attention_mask"}
	outputNames := []string{"last_hidden_state"}

	session, err := ort.NewDynamicSession[int64, float32](p.modelPath, inputNames, outputNames)
	if err != nil {
		return fmt.Errorf("failed to create ONNX session: %w", err)
	}

	p.session = session
	return nil
}

// loadTokenizer loads the SentencePiece tokenizer
func (p *ONNXProvider) loadTokenizer() error {
	file, err := os.Open(p.tokenizerPath)
	if err != nil {
		return fmt.Errorf("failed to open tokenizer file: %w", err)
	}
	defer file.Close()

	tokenizer, err := sentencepiece.NewProcessor(file)
	if err != nil {
		return fmt.Errorf("failed to load SentencePiece tokenizer: %w", err)
	}

	p.tokenizer = tokenizer
	return nil
}

// Embed generates an embedding by running the model on the tokenized
// text, mean-pooling the token states and normalizing to unit length.
func (p *ONNXProvider) Embed(text string) ([]float32, error) {
	if p.session == nil {
		return nil, fmt.Errorf("model not initialized")
	}

	inputIds := p.tokenize(text)
	seqLength := len(inputIds)

	attentionMask := make([]int64, seqLength)
	for i := range attentionMask {
		attentionMask[i] = 1
	}

	inputShape := []int64{1, int64(seqLength)}

	inputIdsTensor, err := ort.NewTensor(inputShape, inputIds)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer inputIdsTensor.Destroy()

	attentionTensor, err := ort.NewTensor(inputShape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer attentionTensor.Destroy()

	dims := p.cfg.Model.Dimensions
	outputShape := []int64{1, int64(seqLength), int64(dims)}
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	err = p.session.Run([]*ort.Tensor[int64]{inputIdsTensor, attentionTensor}, []*ort.Tensor[float32]{outputTensor})
	if err != nil {
		return nil, fmt.Errorf("failed to run ONNX model: %w", err)
	}

	hidden := outputTensor.GetData()
	if len(hidden) != seqLength*dims {
		return nil, fmt.Errorf("output size mismatch: got %d, expected %d", len(hidden), seqLength*dims)
	}

	return normalize(meanPool(hidden, seqLength, dims)), nil
}

// tokenize encodes the text into XLM-R vocabulary ids, wrapped in
// BOS/EOS and truncated to the configured maximum sequence length.
func (p *ONNXProvider) tokenize(text string) []int64 {
	tokens := p.tokenizer.Encode(text)

	maxTokens := p.cfg.Model.MaxSeqLength - 2
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}

	ids := make([]int64, 0, len(tokens)+2)
	ids = append(ids, xlmrBOS)
	for _, tok := range tokens {
		ids = append(ids, int64(tok.ID)+xlmrOffset)
	}
	ids = append(ids, xlmrEOS)
	return ids
}

// meanPool averages the per-token hidden states into a single vector.
// Every position carries attention weight 1 here, so the pool is a
// plain mean over the sequence.
func meanPool(hidden []float32, seqLength, dims int) []float32 {
	pooled := make([]float32, dims)
	for s := 0; s < seqLength; s++ {
		for d := 0; d < dims; d++ {
			pooled[d] += hidden[s*dims+d]
		}
	}
	for d := range pooled {
		pooled[d] /= float32(seqLength)
	}
	return pooled
}

// Close releases the ONNX session and runtime environment.
func (p *ONNXProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	if p.session != nil {
		p.session.Destroy()
		p.session = nil
	}

	// SentencePiece processor doesn't need explicit cleanup
	p.tokenizer = nil

	ort.DestroyEnvironment()
	p.closed = true

	return nil
}
