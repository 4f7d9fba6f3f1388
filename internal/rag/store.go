// Package rag implements document ingestion and retrieval for the agent's
// knowledge base. Chunked documents live in a chromem-go embedded vector
// database persisted on disk; retrieval returns the top-k chunks by
// embedding similarity for injection into the model prompt.
package rag

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// ErrEmptyDocuments indicates empty or nil documents.
var ErrEmptyDocuments = errors.New("empty or nil documents")

// Document is a chunk headed into the vector store.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Chunk is a retrieval result: text plus its similarity to the query.
type Chunk struct {
	Content    string
	Source     string
	Similarity float32
}

// Store wraps a persistent chromem-go collection. chromem-go owns the
// on-disk format; this code only reads and writes through its API.
type Store struct {
	db         *chromem.DB
	collection string
	embedder   Embedder
	logger     *zap.Logger
}

// NewStore opens (or creates) the vector index at the configured path.
func NewStore(cfg config.RAGConfig, embedder Embedder, logger *zap.Logger) (*Store, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := chromem.NewPersistentDB(cfg.IndexPath, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector index at %s: %w", cfg.IndexPath, err)
	}

	logger.Info("vector index opened",
		zap.String("path", cfg.IndexPath),
		zap.String("collection", cfg.Collection))

	return &Store{
		db:         db,
		collection: cfg.Collection,
		embedder:   embedder,
		logger:     logger,
	}, nil
}

func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

func (s *Store) getOrCreateCollection() (*chromem.Collection, error) {
	c, err := s.db.GetOrCreateCollection(s.collection, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", s.collection, err)
	}
	return c, nil
}

// Add embeds and upserts documents into the collection.
func (s *Store) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return ErrEmptyDocuments
	}

	c, err := s.getOrCreateCollection()
	if err != nil {
		return err
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d documents: %w", len(docs), err)
	}

	cdocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		cdocs[i] = chromem.Document{
			ID:        d.ID,
			Content:   d.Content,
			Metadata:  d.Metadata,
			Embedding: vectors[i],
		}
	}

	if err := c.AddDocuments(ctx, cdocs, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Debug("documents added", zap.Int("count", len(docs)))
	return nil
}

// RemoveSource deletes every chunk ingested from the given source file.
func (s *Store) RemoveSource(ctx context.Context, source string) error {
	c, err := s.getOrCreateCollection()
	if err != nil {
		return err
	}
	if err := c.Delete(ctx, map[string]string{"source": source}, nil); err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", source, err)
	}
	return nil
}

// Query returns up to k chunks most similar to the query text. An empty
// collection yields an empty slice, not an error.
func (s *Store) Query(ctx context.Context, query string, k int) ([]Chunk, error) {
	c, err := s.getOrCreateCollection()
	if err != nil {
		return nil, err
	}

	count := c.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := c.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	chunks := make([]Chunk, len(results))
	for i, r := range results {
		chunks[i] = Chunk{
			Content:    r.Content,
			Source:     r.Metadata["source"],
			Similarity: r.Similarity,
		}
	}
	return chunks, nil
}

// Count returns the number of chunks in the collection.
func (s *Store) Count() (int, error) {
	c, err := s.getOrCreateCollection()
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}
