package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// AnnualYieldMWh computes annual production in MWh from an AC capacity in
// MW and a specific yield in kWh/kWp/year, assuming a 1:1 DC/AC ratio.
// The kW->MW conversions cancel, leaving a plain product.
func AnnualYieldMWh(capacityMW, specificYield float64) float64 {
	return capacityMW * specificYield
}

// YieldTool estimates annual production from the configured specific yield.
type YieldTool struct {
	cfg    config.ToolsConfig
	logger *zap.Logger
}

func NewYieldTool(cfg config.ToolsConfig, logger *zap.Logger) *YieldTool {
	return &YieldTool{cfg: cfg, logger: logger.Named("solar_yield")}
}

func (t *YieldTool) Name() string { return "solar_yield" }

func (t *YieldTool) Description() string {
	return "Quick annual energy production estimate (MWh/year) for a solar plant, " +
		"from a fixed specific-yield assumption. Use production_model for a detailed analysis."
}

func (t *YieldTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"lat":         numberParam("Latitude in decimal degrees"),
		"lon":         numberParam("Longitude in decimal degrees"),
		"capacity_mw": numberParam("AC capacity in megawatts"),
	}, "lat", "lon")
}

func (t *YieldTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Lat        float64  `json:"lat"`
		Lon        float64  `json:"lon"`
		CapacityMW *float64 `json:"capacity_mw"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	capacity := t.cfg.DefaultCapacityMW
	if in.CapacityMW != nil && *in.CapacityMW > 0 {
		capacity = *in.CapacityMW
	}

	yield := AnnualYieldMWh(capacity, t.cfg.SpecificYield)
	t.logger.Info("computed yield estimate",
		zap.Float64("capacity_mw", capacity), zap.Float64("annual_mwh", yield))

	return fmt.Sprintf(
		"Estimated annual production: %.0f MWh/year for %.1f MW AC (specific yield %.0f kWh/kWp/year, 1:1 DC/AC).",
		yield, capacity, t.cfg.SpecificYield,
	), nil
}
