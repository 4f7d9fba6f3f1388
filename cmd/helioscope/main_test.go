package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRejectsMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0o644))

	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })

	_, _, err := setup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestSetupUsesDefaultsWithoutConfigFile(t *testing.T) {
	old := configPath
	configPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { configPath = old })

	cfg, logger, err := setup()
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("**FEASIBILITY ANALYSIS**\n\nLooks good.")
	assert.Contains(t, out, "FEASIBILITY ANALYSIS")
	assert.Contains(t, out, "Looks good.")
}
