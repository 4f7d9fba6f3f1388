package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

// defaultNRELBaseURL is the NREL developer API endpoint.
const defaultNRELBaseURL = "https://developer.nrel.gov"

// Irradiance is a typed solar-resource value. Downstream consumers
// (the production model) read the numbers directly instead of parsing
// them back out of formatted text.
type Irradiance struct {
	// GHI is annual-average global horizontal irradiance, kWh/m²/day.
	GHI float64

	// DNI is annual-average direct normal irradiance, kWh/m²/day.
	DNI float64

	// Estimated is true when the value is a latitude-band fallback
	// rather than measured API data.
	Estimated bool
}

// IrradianceTool fetches solar-resource data from the NREL API, falling
// back to a deterministic latitude-banded estimate on any failure.
type IrradianceTool struct {
	client  *http.Client
	baseURL string
	apiKey  config.Secret
	logger  *zap.Logger
}

func NewIrradianceTool(cfg config.ToolsConfig, client *http.Client, logger *zap.Logger) *IrradianceTool {
	return &IrradianceTool{
		client:  client,
		baseURL: defaultNRELBaseURL,
		apiKey:  cfg.NRELAPIKey,
		logger:  logger.Named("solar_irradiance"),
	}
}

func (t *IrradianceTool) Name() string { return "solar_irradiance" }

func (t *IrradianceTool) Description() string {
	return "Solar resource data (GHI/DNI irradiance) for a site from the NREL solar " +
		"resource database. Falls back to a labeled latitude-band estimate when the " +
		"API is unavailable."
}

func (t *IrradianceTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"lat": numberParam("Latitude in decimal degrees"),
		"lon": numberParam("Longitude in decimal degrees"),
	}, "lat", "lon")
}

func (t *IrradianceTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	_, text := t.Lookup(ctx, in.Lat, in.Lon)
	return text, nil
}

// nrelResponse mirrors the fields of the solar_resource endpoint we use.
type nrelResponse struct {
	Outputs struct {
		AvgGHI struct {
			Annual  float64            `json:"annual"`
			Monthly map[string]float64 `json:"monthly"`
		} `json:"avg_ghi"`
		AvgDNI struct {
			Annual float64 `json:"annual"`
		} `json:"avg_dni"`
		AvgLatTilt struct {
			Annual float64 `json:"annual"`
		} `json:"avg_lat_tilt"`
	} `json:"outputs"`
}

// Lookup returns the typed irradiance value and its formatted rendering.
// Every failure class collapses into the estimate path; Lookup never
// reports an error.
func (t *IrradianceTool) Lookup(ctx context.Context, lat, lon float64) (Irradiance, string) {
	if !t.apiKey.IsSet() {
		t.logger.Debug("no NREL API key, using latitude-band estimate",
			zap.Float64("lat", lat), zap.Float64("lon", lon))
		return estimateIrradiance(lat, lon)
	}

	data, err := t.fetch(ctx, lat, lon)
	if err != nil {
		t.logger.Warn("NREL lookup failed, using latitude-band estimate",
			zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return estimateIrradiance(lat, lon)
	}

	irr := Irradiance{
		GHI: data.Outputs.AvgGHI.Annual,
		DNI: data.Outputs.AvgDNI.Annual,
	}
	if irr.GHI <= 0 {
		t.logger.Warn("NREL response carried no GHI, using latitude-band estimate",
			zap.Float64("lat", lat), zap.Float64("lon", lon))
		return estimateIrradiance(lat, lon)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "NREL Solar Resource Data for (%g, %g)\n", lat, lon)
	fmt.Fprintf(&b, "Average Global Horizontal Irradiance: %.2f kWh/m²/day\n", irr.GHI)
	if irr.DNI > 0 {
		fmt.Fprintf(&b, "Average Direct Normal Irradiance: %.2f kWh/m²/day\n", irr.DNI)
	}
	if tilt := data.Outputs.AvgLatTilt.Annual; tilt > 0 {
		fmt.Fprintf(&b, "Average Latitude Tilt Irradiance: %.2f kWh/m²/day\n", tilt)
	}
	if len(data.Outputs.AvgGHI.Monthly) > 0 {
		b.WriteString("Monthly GHI (kWh/m²/day):")
		for _, m := range monthOrder(data.Outputs.AvgGHI.Monthly) {
			fmt.Fprintf(&b, " %s=%.1f", m, data.Outputs.AvgGHI.Monthly[m])
		}
		b.WriteString("\n")
	}
	return irr, b.String()
}

func (t *IrradianceTool) fetch(ctx context.Context, lat, lon float64) (*nrelResponse, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("api_key", t.apiKey.Value())

	endpoint := t.baseURL + "/api/solar/solar_resource/v1.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling NREL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NREL returned status %d", resp.StatusCode)
	}

	var data nrelResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding NREL response: %w", err)
	}
	return &data, nil
}

// estimateIrradiance is the deterministic latitude-band fallback. The
// output text carries an explicit "Estimated" label so the model and the
// user both know this is not measured data.
func estimateIrradiance(lat, lon float64) (Irradiance, string) {
	absLat := lat
	if absLat < 0 {
		absLat = -absLat
	}

	var ghi, dni float64
	var zone string
	switch {
	case absLat <= 23.5:
		ghi, dni, zone = 6.0, 7.5, "tropical"
	case absLat <= 35:
		ghi, dni, zone = 5.5, 7.0, "subtropical"
	case absLat <= 45:
		ghi, dni, zone = 4.5, 5.5, "mid-latitude"
	default:
		ghi, dni, zone = 3.5, 4.0, "high-latitude"
	}

	text := fmt.Sprintf(
		"Estimated Solar Resource Data for (%g, %g)\n"+
			"Note: rough latitude-band estimates; configure NREL_API_KEY for measured data.\n"+
			"Average Global Horizontal Irradiance: ~%.1f kWh/m²/day\n"+
			"Average Direct Normal Irradiance: ~%.1f kWh/m²/day\n"+
			"Latitude zone: %.1f° (%s)\n",
		lat, lon, ghi, dni, absLat, zone,
	)
	return Irradiance{GHI: ghi, DNI: dni, Estimated: true}, text
}

// monthOrder returns calendar-ordered keys present in the monthly map.
func monthOrder(monthly map[string]float64) []string {
	calendar := []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	rank := make(map[string]int, len(calendar))
	for i, m := range calendar {
		rank[m] = i
	}

	keys := make([]string, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[strings.ToLower(keys[i])]
		rj, jok := rank[strings.ToLower(keys[j])]
		if iok && jok {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
