package rag

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder picks an embedder for the configuration. With an OpenAI key
// it uses the configured embedding model via langchaingo; without one it
// falls back to a deterministic local hash embedding so ingest and query
// stay functional keyless.
func NewEmbedder(cfg config.RAGConfig, llmCfg config.LLMConfig) (Embedder, error) {
	if !llmCfg.APIKey.IsSet() {
		return hashEmbedder{dim: hashEmbedderDim}, nil
	}

	client, err := openai.New(
		openai.WithToken(llmCfg.APIKey.Value()),
		openai.WithBaseURL(llmCfg.BaseURL),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// hashEmbedderDim is the dimension of the fallback embedding space.
const hashEmbedderDim = 256

// hashEmbedder is a bag-of-words hashing embedder. It captures lexical
// overlap, which is enough for top-k retrieval over a handful of local
// documents, and costs nothing to run.
type hashEmbedder struct {
	dim int
}

func (e hashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = e.embed(text)
	}
	return vecs, nil
}

func (e hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e hashEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()[]\"'")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%uint32(e.dim)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// A zero vector breaks cosine similarity; give empty text a
		// stable non-zero direction instead.
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
