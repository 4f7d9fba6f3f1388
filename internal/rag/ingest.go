package rag

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// ingestExtensions are the document types picked up from the docs dir.
var ingestExtensions = map[string]bool{".txt": true, ".md": true}

// Ingester splits documents into fixed-size overlapping chunks and loads
// them into the vector store.
type Ingester struct {
	store    *Store
	docsDir  string
	splitter textsplitter.RecursiveCharacter
	logger   *zap.Logger
}

// NewIngester builds an ingester with the configured chunking window.
func NewIngester(cfg config.RAGConfig, store *Store, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)
	return &Ingester{
		store:    store,
		docsDir:  cfg.DocsDir,
		splitter: splitter,
		logger:   logger.Named("ingest"),
	}
}

// IngestAll loads every supported document under the docs directory.
// Returns the number of chunks ingested.
func (in *Ingester) IngestAll(ctx context.Context) (int, error) {
	var total int
	err := filepath.WalkDir(in.docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !ingestExtensions[filepath.Ext(path)] {
			return nil
		}
		n, err := in.IngestFile(ctx, path)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("ingesting %s: %w", in.docsDir, err)
	}

	in.logger.Info("ingest complete", zap.String("dir", in.docsDir), zap.Int("chunks", total))
	return total, nil
}

// IngestFile (re)loads a single document, replacing any chunks previously
// ingested from the same file.
func (in *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	source := in.sourceName(path)
	if err := in.store.RemoveSource(ctx, source); err != nil {
		return 0, err
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		in.logger.Warn("skipping empty document", zap.String("path", path))
		return 0, nil
	}

	pieces, err := in.splitter.SplitText(text)
	if err != nil {
		return 0, fmt.Errorf("splitting %s: %w", path, err)
	}

	docs := make([]Document, 0, len(pieces))
	for i, piece := range pieces {
		docs = append(docs, Document{
			ID:      uuid.NewString(),
			Content: piece,
			Metadata: map[string]string{
				"source": source,
				"chunk":  fmt.Sprintf("%d", i),
			},
		})
	}
	if err := in.store.Add(ctx, docs); err != nil {
		return 0, err
	}

	in.logger.Info("document ingested",
		zap.String("source", source), zap.Int("chunks", len(docs)))
	return len(docs), nil
}

// sourceName keys chunks by path relative to the docs dir when possible.
func (in *Ingester) sourceName(path string) string {
	if rel, err := filepath.Rel(in.docsDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return filepath.Base(path)
}

// Watch re-ingests documents as they change on disk, until ctx is done.
// Removed files have their chunks deleted.
func (in *Ingester) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(in.docsDir); err != nil {
		return fmt.Errorf("watching %s: %w", in.docsDir, err)
	}
	in.logger.Info("watching for document changes", zap.String("dir", in.docsDir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ingestExtensions[filepath.Ext(event.Name)] {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
				if _, err := in.IngestFile(ctx, event.Name); err != nil {
					in.logger.Warn("re-ingest failed",
						zap.String("path", event.Name), zap.Error(err))
				}
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				if err := in.store.RemoveSource(ctx, in.sourceName(event.Name)); err != nil {
					in.logger.Warn("chunk removal failed",
						zap.String("path", event.Name), zap.Error(err))
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			in.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
