package tools

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// monthlyOutlook is a fixed ten-year monthly profile (California averages).
// The outlook tool returns it for any coordinate; it exists so the agent
// always has a seasonal shape to reason about, not as a forecast.
var monthlyOutlook = []string{
	"month,temp_C,ghi_kWh_m2_day",
	"1,12.5,3.8",
	"2,14.2,4.9",
	"3,16.8,6.2",
	"4,19.1,7.4",
	"5,22.3,8.1",
	"6,25.1,8.7",
	"7,27.8,8.9",
	"8,27.2,8.2",
	"9,24.9,6.8",
	"10,20.7,5.1",
	"11,16.1,4.0",
	"12,12.8,3.5",
}

// OutlookTool returns the canned monthly temperature/GHI table.
type OutlookTool struct {
	logger *zap.Logger
}

func NewOutlookTool(logger *zap.Logger) *OutlookTool {
	return &OutlookTool{logger: logger.Named("weather_outlook")}
}

func (t *OutlookTool) Name() string { return "weather_outlook" }

func (t *OutlookTool) Description() string {
	return "Long-term monthly temperature and solar irradiance (GHI) outlook for a site. " +
		"Returns a CSV table of representative monthly averages."
}

func (t *OutlookTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"lat": numberParam("Latitude in decimal degrees"),
		"lon": numberParam("Longitude in decimal degrees"),
	}, "lat", "lon")
}

func (t *OutlookTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	t.logger.Info("returning canned monthly outlook",
		zap.Float64("lat", in.Lat), zap.Float64("lon", in.Lon))
	return strings.Join(monthlyOutlook, "\n"), nil
}
