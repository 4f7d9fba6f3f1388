package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// ProjectCost computes capital and annual operating expenditure, both in
// millions of dollars, as linear multiples of AC capacity. opexPerMWYearK
// is in thousands of dollars per MW per year.
func ProjectCost(capacityMW, capexPerMW, opexPerMWYearK float64) (capexM, opexM float64) {
	return capacityMW * capexPerMW, capacityMW * opexPerMWYearK / 1000
}

// CostTool reports capex/opex from the configured per-MW constants.
type CostTool struct {
	cfg    config.ToolsConfig
	logger *zap.Logger
}

func NewCostTool(cfg config.ToolsConfig, logger *zap.Logger) *CostTool {
	return &CostTool{cfg: cfg, logger: logger.Named("cost_model")}
}

func (t *CostTool) Name() string { return "cost_model" }

func (t *CostTool) Description() string {
	return "Capital expenditure and annual operating expenditure estimates for a solar plant " +
		"of a given AC capacity, in millions of dollars."
}

func (t *CostTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"capacity_mw": numberParam("AC capacity in megawatts"),
	}, "capacity_mw")
}

func (t *CostTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		CapacityMW *float64 `json:"capacity_mw"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	capacity := t.cfg.DefaultCapacityMW
	if in.CapacityMW != nil && *in.CapacityMW > 0 {
		capacity = *in.CapacityMW
	}

	capex, opex := ProjectCost(capacity, t.cfg.CapexPerMW, t.cfg.OpexPerMWYearK)
	t.logger.Info("computed cost estimate",
		zap.Float64("capacity_mw", capacity),
		zap.Float64("capex_m", capex),
		zap.Float64("opex_m_year", opex))

	return fmt.Sprintf(
		"CapEx: $%.2fM, OpEx: $%.3fM/year for %.1f MW AC ($%.2fM/MW capex, $%.0fk/MW/year opex).",
		capex, opex, capacity, t.cfg.CapexPerMW, t.cfg.OpexPerMWYearK,
	), nil
}
