package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// ErrUnknownTool is returned when dispatch targets an unregistered name.
var ErrUnknownTool = errors.New("unknown tool")

// dispatchTimeout bounds a single tool invocation. Tools must never hang
// the orchestrator loop indefinitely.
const dispatchTimeout = 45 * time.Second

// Registry is an immutable name -> tool mapping built once at startup.
// The orchestrator consumes it for tool selection and dispatch.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger *zap.Logger
}

// NewRegistry builds a registry from the given tools. Duplicate names
// indicate a programming error and fail construction.
func NewRegistry(logger *zap.Logger, toolList ...Tool) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		tools:  make(map[string]Tool, len(toolList)),
		order:  make([]string, 0, len(toolList)),
		logger: logger,
	}
	for _, t := range toolList {
		if _, exists := r.tools[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r, nil
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the tool set in the shape the language model consumes.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Dispatch invokes the named tool with a bounded deadline. Tool-internal
// fallbacks mean errors here are limited to unknown names, malformed
// arguments, and deadline overruns.
func (r *Registry) Dispatch(ctx context.Context, name, args string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	start := time.Now()
	result, err := t.Call(ctx, args)
	r.logger.Debug("tool dispatched",
		zap.String("tool", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return result, err
}

// DefaultTools builds the standard tool set from the configuration. The
// shared HTTP client carries the configured timeout for every remote call;
// the shared rate limiter spaces search-backed requests.
func DefaultTools(cfg *config.Config, logger *zap.Logger) []Tool {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{Timeout: cfg.Tools.HTTPTimeout.Duration()}
	limiter := rate.NewLimiter(rate.Every(cfg.Tools.SearchRateInterval.Duration()), 1)

	irradiance := NewIrradianceTool(cfg.Tools, client, logger)
	search := NewWebSearchTool(client, limiter, logger)

	return []Tool{
		NewOutlookTool(logger),
		NewYieldTool(cfg.Tools, logger),
		NewCostTool(cfg.Tools, logger),
		NewTransmissionTool(cfg.Tools, logger),
		NewGridTool(logger),
		irradiance,
		NewProductionTool(cfg.Tools, irradiance, logger),
		NewWeatherTool(cfg.Tools, client, logger),
		NewGeocodeTool(client, logger),
		search,
		NewEnergyNewsTool(search),
		NewMarketAnalysisTool(search),
	}
}
