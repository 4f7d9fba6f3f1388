package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// defaultNominatimBaseURL is the OpenStreetMap geocoding endpoint.
const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// GeocodeTool resolves place names to coordinates via Nominatim.
type GeocodeTool struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

func NewGeocodeTool(client *http.Client, logger *zap.Logger) *GeocodeTool {
	return &GeocodeTool{
		client:  client,
		baseURL: defaultNominatimBaseURL,
		logger:  logger.Named("geocode"),
	}
}

func (t *GeocodeTool) Name() string { return "geocode" }

func (t *GeocodeTool) Description() string {
	return "Convert a place name (e.g. \"Miami, Florida\") to latitude/longitude coordinates."
}

func (t *GeocodeTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"location": stringParam("Place name to resolve, e.g. \"San Francisco, CA\""),
	}, "location")
}

func (t *GeocodeTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Location string `json:"location"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Location) == "" {
		return "No location given; provide a place name to geocode.", nil
	}

	results, err := t.fetch(ctx, in.Location)
	if err != nil {
		t.logger.Warn("geocoding failed", zap.String("location", in.Location), zap.Error(err))
		return fmt.Sprintf(
			"Geocoding service unavailable for %q; ask the user for coordinates directly.",
			in.Location,
		), nil
	}
	if len(results) == 0 {
		return fmt.Sprintf("No locations found for %q.", in.Location), nil
	}

	var b strings.Builder
	for i, loc := range results {
		fmt.Fprintf(&b, "Result %d: %s\n", i+1, loc.DisplayName)
		fmt.Fprintf(&b, "Coordinates: %s, %s\n", loc.Lat, loc.Lon)
		if loc.Address.Country != "" {
			fmt.Fprintf(&b, "Country: %s\n", loc.Address.Country)
		}
		if loc.Address.State != "" {
			fmt.Fprintf(&b, "State/Region: %s\n", loc.Address.State)
		}
	}
	return b.String(), nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Country string `json:"country"`
		State   string `json:"state"`
	} `json:"address"`
}

func (t *GeocodeTool) fetch(ctx context.Context, location string) ([]nominatimResult, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "3")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding Nominatim response: %w", err)
	}
	return results, nil
}
