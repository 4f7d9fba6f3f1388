// Package config provides configuration loading for helioscope.
//
// Configuration is loaded from an optional YAML file, then overridden by
// HELIOSCOPE_* environment variables. Every field has a documented default
// so the agent runs with no file at all. API keys come from their providers'
// conventional environment variables and are never required at startup;
// tools that lack a key fall back to labeled estimates.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the complete helioscope configuration. It is built once at
// startup and passed explicitly to every component that needs it.
type Config struct {
	LLM     LLMConfig     `koanf:"llm"`
	RAG     RAGConfig     `koanf:"rag"`
	Tools   ToolsConfig   `koanf:"tools"`
	Logging LoggingConfig `koanf:"logging"`
}

// LLMConfig holds chat-model settings for the agent orchestrator.
type LLMConfig struct {
	// BaseURL is the OpenAI-compatible API endpoint.
	BaseURL string `koanf:"base_url"`

	// Model is the chat model used for tool selection and summarization.
	Model string `koanf:"model"`

	// Temperature for chat completions.
	Temperature float64 `koanf:"temperature"`

	// MaxIterations bounds the tool-calling loop per query.
	MaxIterations int `koanf:"max_iterations"`

	// APIKey is read from OPENAI_API_KEY, never from the config file.
	APIKey Secret `koanf:"-"`
}

// RAGConfig holds retrieval pipeline settings.
type RAGConfig struct {
	// DocsDir is the directory of source documents to index.
	DocsDir string `koanf:"docs_dir"`

	// IndexPath is the on-disk vector index directory (owned by chromem-go).
	IndexPath string `koanf:"index_path"`

	// Collection is the vector collection name.
	Collection string `koanf:"collection"`

	// ChunkSize is the split window in characters.
	ChunkSize int `koanf:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent chunks in characters.
	ChunkOverlap int `koanf:"chunk_overlap"`

	// TopK is the number of chunks returned per retrieval.
	TopK int `koanf:"top_k"`

	// EmbeddingModel is the embedding model name (OpenAI-compatible).
	EmbeddingModel string `koanf:"embedding_model"`
}

// ToolsConfig holds data-tool constants and remote-call settings.
type ToolsConfig struct {
	// DefaultLatitude and DefaultLongitude are the fallback site coordinates.
	DefaultLatitude  float64 `koanf:"default_latitude"`
	DefaultLongitude float64 `koanf:"default_longitude"`

	// DefaultCapacityMW is the fallback plant capacity.
	DefaultCapacityMW float64 `koanf:"default_capacity_mw"`

	// SpecificYield is annual energy per installed capacity (kWh/kWp/year).
	SpecificYield float64 `koanf:"specific_yield"`

	// CapexPerMW is capital expenditure in $M per MW.
	CapexPerMW float64 `koanf:"capex_per_mw"`

	// OpexPerMWYearK is operating expenditure in $k per MW per year.
	OpexPerMWYearK float64 `koanf:"opex_per_mw_year_k"`

	// TransmissionCostPer100Km is $/kWh per 100 km of line distance.
	TransmissionCostPer100Km float64 `koanf:"transmission_cost_per_100km"`

	// HTTPTimeout bounds every outbound API call.
	HTTPTimeout Duration `koanf:"http_timeout"`

	// SearchRateInterval spaces consecutive web-search requests.
	SearchRateInterval Duration `koanf:"search_rate_interval"`

	// API keys come from the environment only.
	NRELAPIKey    Secret `koanf:"-"`
	WeatherAPIKey Secret `koanf:"-"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// applyDefaults fills zero-valued fields with documented defaults.
func applyDefaults(cfg *Config) {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.MaxIterations == 0 {
		cfg.LLM.MaxIterations = 10
	}

	if cfg.RAG.DocsDir == "" {
		cfg.RAG.DocsDir = "data"
	}
	if cfg.RAG.IndexPath == "" {
		cfg.RAG.IndexPath = ".helioscope/index"
	}
	if cfg.RAG.Collection == "" {
		cfg.RAG.Collection = "site_docs"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 50
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.EmbeddingModel == "" {
		cfg.RAG.EmbeddingModel = "text-embedding-3-small"
	}

	if cfg.Tools.DefaultLatitude == 0 {
		cfg.Tools.DefaultLatitude = 37.2
	}
	if cfg.Tools.DefaultLongitude == 0 {
		cfg.Tools.DefaultLongitude = -121.9
	}
	if cfg.Tools.DefaultCapacityMW == 0 {
		cfg.Tools.DefaultCapacityMW = 20.0
	}
	if cfg.Tools.SpecificYield == 0 {
		cfg.Tools.SpecificYield = 1600
	}
	if cfg.Tools.CapexPerMW == 0 {
		cfg.Tools.CapexPerMW = 1.0
	}
	if cfg.Tools.OpexPerMWYearK == 0 {
		cfg.Tools.OpexPerMWYearK = 20
	}
	if cfg.Tools.TransmissionCostPer100Km == 0 {
		cfg.Tools.TransmissionCostPer100Km = 0.03
	}
	if cfg.Tools.HTTPTimeout == 0 {
		cfg.Tools.HTTPTimeout = Duration(15 * time.Second)
	}
	if cfg.Tools.SearchRateInterval == 0 {
		cfg.Tools.SearchRateInterval = Duration(time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// loadSecrets pulls API keys from the environment. Absence is not an error;
// the affected tools fall back to labeled estimates.
func loadSecrets(cfg *Config) {
	cfg.LLM.APIKey = Secret(os.Getenv("OPENAI_API_KEY"))
	cfg.Tools.NRELAPIKey = Secret(os.Getenv("NREL_API_KEY"))
	cfg.Tools.WeatherAPIKey = Secret(os.Getenv("OPENWEATHERMAP_API_KEY"))
}

// Validate rejects values that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.LLM.MaxIterations < 1 {
		return fmt.Errorf("llm.max_iterations must be positive, got %d", c.LLM.MaxIterations)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be in [0, 2], got %g", c.LLM.Temperature)
	}
	if c.RAG.ChunkSize < 1 {
		return fmt.Errorf("rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, chunk_size), got %d", c.RAG.ChunkOverlap)
	}
	if c.RAG.TopK < 1 {
		return fmt.Errorf("rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	if c.Tools.SpecificYield <= 0 {
		return fmt.Errorf("tools.specific_yield must be positive, got %g", c.Tools.SpecificYield)
	}
	if c.Tools.CapexPerMW < 0 || c.Tools.OpexPerMWYearK < 0 {
		return fmt.Errorf("tools cost constants must be non-negative")
	}
	if c.Tools.TransmissionCostPer100Km < 0 {
		return fmt.Errorf("tools.transmission_cost_per_100km must be non-negative, got %g", c.Tools.TransmissionCostPer100Km)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
