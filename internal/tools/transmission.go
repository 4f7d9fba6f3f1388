package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
	"github.com/sunwardlabs/helioscope/internal/geo"
)

// TransmissionCostUSD computes the annual cost of moving energyMWh over
// distKm of line, at ratePer100Km dollars per kWh per 100 km.
func TransmissionCostUSD(distKm, energyMWh, ratePer100Km float64) float64 {
	costPerKWh := ratePer100Km * (distKm / 100.0)
	return costPerKWh * energyMWh * 1000
}

// TransmissionTool prices delivery from a plant site to an offtake point.
type TransmissionTool struct {
	cfg    config.ToolsConfig
	logger *zap.Logger
}

func NewTransmissionTool(cfg config.ToolsConfig, logger *zap.Logger) *TransmissionTool {
	return &TransmissionTool{cfg: cfg, logger: logger.Named("transmission_cost")}
}

func (t *TransmissionTool) Name() string { return "transmission_cost" }

func (t *TransmissionTool) Description() string {
	return "Annual transmission cost in dollars for delivering energy from a plant site to a " +
		"destination, using great-circle distance and a flat $/kWh/100km rate."
}

func (t *TransmissionTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"src_lat":    numberParam("Plant latitude in decimal degrees"),
		"src_lon":    numberParam("Plant longitude in decimal degrees"),
		"dst_lat":    numberParam("Destination latitude in decimal degrees"),
		"dst_lon":    numberParam("Destination longitude in decimal degrees"),
		"annual_mwh": numberParam("Annual delivered energy in MWh"),
	}, "src_lat", "src_lon", "dst_lat", "dst_lon")
}

func (t *TransmissionTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		SrcLat    float64  `json:"src_lat"`
		SrcLon    float64  `json:"src_lon"`
		DstLat    float64  `json:"dst_lat"`
		DstLon    float64  `json:"dst_lon"`
		AnnualMWh *float64 `json:"annual_mwh"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	energy := AnnualYieldMWh(t.cfg.DefaultCapacityMW, t.cfg.SpecificYield)
	if in.AnnualMWh != nil && *in.AnnualMWh > 0 {
		energy = *in.AnnualMWh
	}

	dist := geo.Haversine(
		geo.Point{Lat: in.SrcLat, Lon: in.SrcLon},
		geo.Point{Lat: in.DstLat, Lon: in.DstLon},
	)
	cost := TransmissionCostUSD(dist, energy, t.cfg.TransmissionCostPer100Km)

	t.logger.Info("computed transmission cost",
		zap.Float64("distance_km", dist),
		zap.Float64("annual_mwh", energy),
		zap.Float64("annual_cost_usd", cost))

	return fmt.Sprintf(
		"Transmission distance: %.1f km. Annual transmission cost: $%.0f for %.0f MWh/year "+
			"($%.2f/kWh/100km flat rate).",
		dist, cost, energy, t.cfg.TransmissionCostPer100Km,
	), nil
}
