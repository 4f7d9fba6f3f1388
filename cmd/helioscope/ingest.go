package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/logging"
	"github.com/sunwardlabs/helioscope/internal/rag"
)

var watch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index documents for the knowledge base",
	Long: `Ingest splits the documents under the configured docs directory into
chunks and indexes them in the local vector store. The knowledge_base tool
searches this index during analysis.

Examples:
  # One-shot ingest
  helioscope ingest

  # Keep watching the docs directory and re-index on change
  helioscope ingest --watch`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&watch, "watch", false, "re-index documents as they change")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	embedder, err := rag.NewEmbedder(cfg.RAG, cfg.LLM)
	if err != nil {
		return err
	}
	store, err := rag.NewStore(cfg.RAG, embedder, logger)
	if err != nil {
		return err
	}
	ingester := rag.NewIngester(cfg.RAG, store, logger)

	n, err := ingester.IngestAll(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Indexed %d chunks from %s\n", n, cfg.RAG.DocsDir)

	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching docs directory", zap.String("dir", cfg.RAG.DocsDir))
	if err := ingester.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
