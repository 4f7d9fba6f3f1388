package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := &config.Config{Tools: testToolsConfig()}
	cfg.Tools.HTTPTimeout = config.Duration(time.Second)
	cfg.Tools.SearchRateInterval = config.Duration(time.Millisecond)

	r, err := NewRegistry(zap.NewNop(), DefaultTools(cfg, zap.NewNop())...)
	require.NoError(t, err)
	return r
}

func TestRegistryContainsAllTools(t *testing.T) {
	r := newTestRegistry(t)

	want := []string{
		"weather_outlook", "solar_yield", "cost_model", "transmission_cost",
		"grid_connection", "solar_irradiance", "production_model",
		"current_weather", "geocode", "web_search", "energy_news", "market_analysis",
	}
	assert.ElementsMatch(t, want, r.Names())
}

func TestRegistryDefinitions(t *testing.T) {
	r := newTestRegistry(t)

	defs := r.Definitions()
	require.Len(t, defs, len(r.Names()))
	for _, def := range defs {
		assert.Equal(t, "function", def.Type)
		require.NotNil(t, def.Function)
		assert.NotEmpty(t, def.Function.Name)
		assert.NotEmpty(t, def.Function.Description)
		assert.NotNil(t, def.Function.Parameters)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := newTestRegistry(t)

	out, err := r.Dispatch(context.Background(), "solar_yield", `{"lat": 37.2, "lon": -121.9, "capacity_mw": 20}`)
	require.NoError(t, err)
	assert.Contains(t, out, "MWh/year")
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Dispatch(context.Background(), "time_travel", "{}")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	logger := zap.NewNop()
	_, err := NewRegistry(logger, NewGridTool(logger), NewGridTool(logger))
	assert.ErrorContains(t, err, "duplicate tool name")
}
