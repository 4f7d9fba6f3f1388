package rag

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

func testRAGConfig(t *testing.T) config.RAGConfig {
	t.Helper()
	return config.RAGConfig{
		DocsDir:      t.TempDir(),
		IndexPath:    filepath.Join(t.TempDir(), "index"),
		Collection:   "site_docs",
		ChunkSize:    500,
		ChunkOverlap: 50,
		TopK:         3,
	}
}

func newTestStore(t *testing.T, cfg config.RAGConfig) *Store {
	t.Helper()
	store, err := NewStore(cfg, hashEmbedder{dim: hashEmbedderDim}, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := hashEmbedder{dim: hashEmbedderDim}
	ctx := context.Background()

	a, err := e.EmbedQuery(ctx, "solar irradiance in the Central Valley")
	require.NoError(t, err)
	b, err := e.EmbedQuery(ctx, "solar irradiance in the Central Valley")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, hashEmbedderDim)
}

func TestHashEmbedderNormalized(t *testing.T) {
	e := hashEmbedder{dim: hashEmbedderDim}
	vec, err := e.EmbedQuery(context.Background(), "grid interconnection substation capacity study")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestHashEmbedderEmptyText(t *testing.T) {
	e := hashEmbedder{dim: hashEmbedderDim}
	vec, err := e.EmbedQuery(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, float32(1), vec[0], "empty text needs a stable non-zero direction")
}

func TestStoreAddAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, testRAGConfig(t))

	docs := []Document{
		{ID: "1", Content: "The substation has 50 MW of spare interconnection capacity.", Metadata: map[string]string{"source": "grid.md"}},
		{ID: "2", Content: "Average annual rainfall at the site is 300 mm.", Metadata: map[string]string{"source": "climate.md"}},
	}
	require.NoError(t, store.Add(ctx, docs))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	chunks, err := store.Query(ctx, "spare interconnection capacity at the substation", 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "substation")
	assert.Equal(t, "grid.md", chunks[0].Source)
	assert.Greater(t, chunks[0].Similarity, float32(0))
}

func TestStoreAddEmpty(t *testing.T) {
	store := newTestStore(t, testRAGConfig(t))
	err := store.Add(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyDocuments)
}

func TestStoreQueryEmptyCollection(t *testing.T) {
	store := newTestStore(t, testRAGConfig(t))
	chunks, err := store.Query(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestStoreQueryClampsK(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, testRAGConfig(t))

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "1", Content: "single chunk", Metadata: map[string]string{"source": "a.md"}},
	}))

	chunks, err := store.Query(ctx, "single chunk", 10)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestStoreRemoveSource(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, testRAGConfig(t))

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "1", Content: "keep me", Metadata: map[string]string{"source": "keep.md"}},
		{ID: "2", Content: "drop me", Metadata: map[string]string{"source": "drop.md"}},
	}))
	require.NoError(t, store.RemoveSource(ctx, "drop.md"))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestAll(t *testing.T) {
	ctx := context.Background()
	cfg := testRAGConfig(t)
	store := newTestStore(t, cfg)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.DocsDir, "site.md"),
		[]byte("The proposed site sits on 120 acres of flat ranch land near Los Banos."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DocsDir, "notes.txt"),
		[]byte("Interconnection queue position was filed in March."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DocsDir, "photo.png"),
		[]byte{0x89, 0x50}, 0o644))

	ing := NewIngester(cfg, store, zap.NewNop())
	n, err := ing.IngestAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one chunk per small document, unsupported types skipped")

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestFileReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	cfg := testRAGConfig(t)
	store := newTestStore(t, cfg)
	ing := NewIngester(cfg, store, zap.NewNop())

	path := filepath.Join(cfg.DocsDir, "study.md")
	require.NoError(t, os.WriteFile(path, []byte("first revision of the study"), 0o644))
	_, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("second revision of the study"), 0o644))
	_, err = ing.IngestFile(ctx, path)
	require.NoError(t, err)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-ingest must replace, not accumulate")

	chunks, err := store.Query(ctx, "revision of the study", 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "second")
}

func TestIngestFileSkipsEmpty(t *testing.T) {
	ctx := context.Background()
	cfg := testRAGConfig(t)
	store := newTestStore(t, cfg)
	ing := NewIngester(cfg, store, zap.NewNop())

	path := filepath.Join(cfg.DocsDir, "empty.md")
	require.NoError(t, os.WriteFile(path, []byte("  \n\t"), 0o644))

	n, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIngestFileChunksLargeDocument(t *testing.T) {
	ctx := context.Background()
	cfg := testRAGConfig(t)
	cfg.ChunkSize = 100
	cfg.ChunkOverlap = 10
	store := newTestStore(t, cfg)
	ing := NewIngester(cfg, store, zap.NewNop())

	var body string
	for i := 0; i < 40; i++ {
		body += "The annual average global horizontal irradiance at the site is favorable. "
	}
	path := filepath.Join(cfg.DocsDir, "irradiance.md")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	n, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Greater(t, n, 1)
}

func TestRetrieverContext(t *testing.T) {
	ctx := context.Background()
	cfg := testRAGConfig(t)
	store := newTestStore(t, cfg)

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "1", Content: "Transmission line access is 12 km away.", Metadata: map[string]string{"source": "grid.md"}},
		{ID: "2", Content: "The county permits utility solar by right.", Metadata: map[string]string{"source": "permits.md"}},
	}))

	r := NewRetriever(cfg, store, zap.NewNop())
	text, err := r.Context(ctx, "how far is transmission line access")
	require.NoError(t, err)
	assert.Contains(t, text, "Transmission line access")
	assert.Contains(t, text, "[grid.md]")
}

func TestRetrieverContextEmptyIndex(t *testing.T) {
	cfg := testRAGConfig(t)
	r := NewRetriever(cfg, newTestStore(t, cfg), zap.NewNop())
	text, err := r.Context(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestKnowledgeToolCall(t *testing.T) {
	ctx := context.Background()
	cfg := testRAGConfig(t)
	store := newTestStore(t, cfg)
	require.NoError(t, store.Add(ctx, []Document{
		{ID: "1", Content: "Soil bearing capacity supports driven pile foundations.", Metadata: map[string]string{"source": "geotech.md"}},
	}))

	tool := NewKnowledgeTool(NewRetriever(cfg, store, zap.NewNop()))
	assert.Equal(t, "knowledge_base", tool.Name())

	out, err := tool.Call(ctx, `{"query": "pile foundations soil"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "geotech.md")
	assert.Contains(t, out, "driven pile foundations")
}

func TestKnowledgeToolEmptyQuery(t *testing.T) {
	cfg := testRAGConfig(t)
	tool := NewKnowledgeTool(NewRetriever(cfg, newTestStore(t, cfg), zap.NewNop()))

	out, err := tool.Call(context.Background(), `{"query": "  "}`)
	require.NoError(t, err)
	assert.Contains(t, out, "No query provided")
}

func TestKnowledgeToolNoResults(t *testing.T) {
	cfg := testRAGConfig(t)
	tool := NewKnowledgeTool(NewRetriever(cfg, newTestStore(t, cfg), zap.NewNop()))

	out, err := tool.Call(context.Background(), `{"query": "anything"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "No relevant documents")
}

func TestKnowledgeToolBadArgs(t *testing.T) {
	cfg := testRAGConfig(t)
	tool := NewKnowledgeTool(NewRetriever(cfg, newTestStore(t, cfg), zap.NewNop()))

	_, err := tool.Call(context.Background(), `{"query": `)
	assert.Error(t, err)
}
