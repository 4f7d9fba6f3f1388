package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// Retriever answers free-text queries with the top-k most similar chunks.
type Retriever struct {
	store  *Store
	topK   int
	logger *zap.Logger
}

func NewRetriever(cfg config.RAGConfig, store *Store, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		store:  store,
		topK:   cfg.TopK,
		logger: logger.Named("retrieve"),
	}
}

// Retrieve returns the top-k chunks for the query. Similarity ties fall
// wherever the store's ordering puts them.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Chunk, error) {
	chunks, err := r.store.Query(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("retrieved chunks",
		zap.String("query", query), zap.Int("count", len(chunks)))
	return chunks, nil
}

// Context concatenates the retrieved chunk texts for prompt injection.
// An empty index yields an empty string.
func (r *Retriever) Context(ctx context.Context, query string) (string, error) {
	chunks, err := r.Retrieve(ctx, query)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if c.Source != "" {
			fmt.Fprintf(&b, "[%s] ", c.Source)
		}
		b.WriteString(c.Content)
	}
	return b.String(), nil
}
