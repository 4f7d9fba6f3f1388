// Package main implements the helioscope CLI: a tool-calling agent for
// utility-scale solar site feasibility analysis.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/agent"
	"github.com/sunwardlabs/helioscope/internal/config"
	"github.com/sunwardlabs/helioscope/internal/logging"
	"github.com/sunwardlabs/helioscope/internal/rag"
	"github.com/sunwardlabs/helioscope/internal/tools"
)

var (
	configPath  string
	query       string
	interactive bool
	demo        bool

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "helioscope",
	Short: "LLM-driven solar site feasibility agent",
	Long: `helioscope analyzes utility-scale solar project feasibility. A language
model selects among data tools (irradiance, production modeling, costs,
transmission, grid regions, weather, web search) and a local document index,
then assembles a feasibility report.

Examples:
  # Single query
  helioscope --query "Is a 20 MW solar farm at 37.2, -121.9 feasible?"

  # Interactive session (also the default with no flags)
  helioscope --interactive

  # Canned demonstration queries
  helioscope --demo`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "configuration file path")
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "single query to analyze")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive session")
	rootCmd.Flags().BoolVar(&demo, "demo", false, "run predefined demo queries")
	rootCmd.AddCommand(ingestCmd)
}

// setup loads configuration and builds the logger. Configuration failures
// happen here, before any tool or model is touched.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logging: %w", err)
	}
	return cfg, logger, nil
}

// buildAgent wires the tool registry, document index, and model together.
func buildAgent(cfg *config.Config, logger *zap.Logger) (*agent.Agent, error) {
	embedder, err := rag.NewEmbedder(cfg.RAG, cfg.LLM)
	if err != nil {
		return nil, err
	}
	store, err := rag.NewStore(cfg.RAG, embedder, logger)
	if err != nil {
		return nil, err
	}
	retriever := rag.NewRetriever(cfg.RAG, store, logger)

	toolList := tools.DefaultTools(cfg, logger)
	toolList = append(toolList, rag.NewKnowledgeTool(retriever))
	registry, err := tools.NewRegistry(logger, toolList...)
	if err != nil {
		return nil, err
	}
	logger.Info("tools registered", zap.Strings("tools", registry.Names()))

	return agent.New(cfg.LLM, registry, logger)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	a, err := buildAgent(cfg, logger)
	if err != nil {
		logger.Error("agent initialization failed", zap.Error(err))
		return err
	}

	switch {
	case query != "":
		return runQuery(cmd, a, query)
	case demo:
		return runDemo(cmd, a)
	default:
		// Interactive is also the default with no mode flag.
		return runInteractive(cmd, a)
	}
}
