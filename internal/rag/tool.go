package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// KnowledgeTool exposes the document index to the agent as a callable tool.
// It satisfies the tools.Tool interface.
type KnowledgeTool struct {
	retriever *Retriever
}

func NewKnowledgeTool(retriever *Retriever) *KnowledgeTool {
	return &KnowledgeTool{retriever: retriever}
}

func (t *KnowledgeTool) Name() string { return "knowledge_base" }

func (t *KnowledgeTool) Description() string {
	return "Search the local project document index for site studies, interconnection notes, and prior analyses. Input is a natural-language question."
}

func (t *KnowledgeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Question to search the indexed documents for",
			},
		},
		"required": []string{"query"},
	}
}

func (t *KnowledgeTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &in); err != nil {
			return "", fmt.Errorf("knowledge_base: decode args: %w", err)
		}
	}
	if strings.TrimSpace(in.Query) == "" {
		return "No query provided. Supply a question to search the document index.", nil
	}

	chunks, err := t.retriever.Retrieve(ctx, in.Query)
	if err != nil {
		return "", fmt.Errorf("knowledge_base: %w", err)
	}
	if len(chunks) == 0 {
		return "No relevant documents found in the local index.", nil
	}

	var b strings.Builder
	b.WriteString("Relevant excerpts from the document index:\n")
	for i, c := range chunks {
		fmt.Fprintf(&b, "\n%d. [%s] (similarity %.2f)\n%s\n", i+1, c.Source, c.Similarity, c.Content)
	}
	return b.String(), nil
}
