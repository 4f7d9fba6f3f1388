// Package agent runs the tool-calling loop that turns a user query into a
// feasibility analysis. The model decides which tools to call; the agent
// executes them through the registry and feeds results back until the model
// produces a plain-text answer or the iteration budget runs out.
package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
	"github.com/sunwardlabs/helioscope/internal/tools"
)

// Step records one executed tool call for display.
type Step struct {
	Tool   string
	Args   string
	Result string
}

// Result is a completed analysis: the answer plus the tool calls behind it.
type Result struct {
	Answer     string
	Steps      []Step
	Iterations int
}

// Agent drives the model/tool loop for one query at a time.
type Agent struct {
	llm      llms.Model
	registry *tools.Registry
	cfg      config.LLMConfig
	logger   *zap.Logger
}

// New builds an agent backed by the configured OpenAI-compatible chat model.
// Without an API key the agent still constructs; Analyze then answers with
// an explanation instead of crashing, so the CLI stays usable keyless.
func New(cfg config.LLMConfig, registry *tools.Registry, logger *zap.Logger) (*Agent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var model llms.Model
	if cfg.APIKey.IsSet() {
		client, err := openai.New(
			openai.WithToken(cfg.APIKey.Value()),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("creating chat client: %w", err)
		}
		model = client
	} else {
		logger.Warn("OPENAI_API_KEY not set, analysis will be unavailable")
	}

	return NewWithModel(model, cfg, registry, logger), nil
}

// NewWithModel builds an agent around an explicit model. Tests use this to
// script responses.
func NewWithModel(model llms.Model, cfg config.LLMConfig, registry *tools.Registry, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	return &Agent{
		llm:      model,
		registry: registry,
		cfg:      cfg,
		logger:   logger.Named("agent"),
	}
}

const noModelAnswer = "I can't run the analysis right now: no language model is configured. " +
	"Set OPENAI_API_KEY and try again. The data tools and document index still work via the ingest command."

// Analyze answers one query. Model failures surface as a readable answer,
// not an error, so interactive sessions keep going.
func (a *Agent) Analyze(ctx context.Context, query string) (*Result, error) {
	if a.llm == nil {
		return &Result{Answer: noModelAnswer}, nil
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}
	defs := a.registry.Definitions()

	result := &Result{}
	for iteration := 1; iteration <= a.cfg.MaxIterations; iteration++ {
		result.Iterations = iteration

		resp, err := a.llm.GenerateContent(ctx, messages,
			llms.WithTools(defs),
			llms.WithTemperature(a.cfg.Temperature),
		)
		if err != nil {
			a.logger.Error("model call failed", zap.Int("iteration", iteration), zap.Error(err))
			result.Answer = fmt.Sprintf(
				"I couldn't complete the analysis: the language model request failed (%v). "+
					"Check your API configuration and try again.", err)
			return result, nil
		}
		if len(resp.Choices) == 0 {
			result.Answer = "I couldn't complete the analysis: the model returned no response."
			return result, nil
		}

		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			result.Answer = choice.Content
			a.logger.Info("analysis complete",
				zap.Int("iterations", iteration), zap.Int("tool_calls", len(result.Steps)))
			return result, nil
		}

		// The assistant turn carrying the tool calls must precede the
		// tool responses in the transcript.
		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		messages = append(messages, assistant)

		for _, tc := range choice.ToolCalls {
			name := tc.FunctionCall.Name
			args := tc.FunctionCall.Arguments

			out, err := a.registry.Dispatch(ctx, name, args)
			if err != nil {
				// The model can often recover by picking another tool.
				out = fmt.Sprintf("tool %s failed: %v", name, err)
				a.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
			}

			result.Steps = append(result.Steps, Step{Tool: name, Args: args, Result: out})
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       name,
					Content:    out,
				}},
			})
		}
	}

	a.logger.Warn("iteration budget exhausted", zap.Int("max_iterations", a.cfg.MaxIterations))
	result.Answer = fmt.Sprintf(
		"I gathered data from %d tool calls but couldn't finish a full analysis within the "+
			"iteration limit. Try a narrower question.", len(result.Steps))
	return result, nil
}
