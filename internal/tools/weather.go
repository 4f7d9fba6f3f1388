package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sunwardlabs/helioscope/internal/config"
)

const (
	defaultOWMBaseURL  = "https://api.openweathermap.org"
	defaultWttrBaseURL = "https://wttr.in"
)

// WeatherTool fetches current conditions. It tries OpenWeatherMap when a
// key is configured, then wttr.in, and finally reports a labeled
// unavailable message. It never returns an error for a remote failure.
type WeatherTool struct {
	client      *http.Client
	owmBaseURL  string
	wttrBaseURL string
	apiKey      config.Secret
	logger      *zap.Logger
}

func NewWeatherTool(cfg config.ToolsConfig, client *http.Client, logger *zap.Logger) *WeatherTool {
	return &WeatherTool{
		client:      client,
		owmBaseURL:  defaultOWMBaseURL,
		wttrBaseURL: defaultWttrBaseURL,
		apiKey:      cfg.WeatherAPIKey,
		logger:      logger.Named("current_weather"),
	}
}

func (t *WeatherTool) Name() string { return "current_weather" }

func (t *WeatherTool) Description() string {
	return "Current weather conditions (temperature, humidity, cloud cover, wind) at a site."
}

func (t *WeatherTool) Parameters() map[string]any {
	return schemaObject(map[string]any{
		"lat": numberParam("Latitude in decimal degrees"),
		"lon": numberParam("Longitude in decimal degrees"),
	}, "lat", "lon")
}

func (t *WeatherTool) Call(ctx context.Context, args string) (string, error) {
	var in struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	if t.apiKey.IsSet() {
		if text, err := t.fetchOWM(ctx, in.Lat, in.Lon); err == nil {
			return text, nil
		} else {
			t.logger.Warn("OpenWeatherMap lookup failed, trying wttr.in", zap.Error(err))
		}
	}

	if text, err := t.fetchWttr(ctx, in.Lat, in.Lon); err == nil {
		return text, nil
	} else {
		t.logger.Warn("wttr.in lookup failed", zap.Error(err))
	}

	return fmt.Sprintf(
		"Current weather data unavailable for (%g, %g); all weather providers failed. "+
			"Use the long-term weather_outlook estimate instead.",
		in.Lat, in.Lon,
	), nil
}

func (t *WeatherTool) fetchOWM(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("appid", t.apiKey.Value())
	q.Set("units", "metric")

	endpoint := t.owmBaseURL + "/data/2.5/weather?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenWeatherMap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenWeatherMap returned status %d", resp.StatusCode)
	}

	var data struct {
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding OpenWeatherMap response: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current Weather for (%g, %g)\n", lat, lon)
	if data.Name != "" {
		fmt.Fprintf(&b, "Location: %s\n", data.Name)
	}
	fmt.Fprintf(&b, "Temperature: %.1f°C\n", data.Main.Temp)
	fmt.Fprintf(&b, "Humidity: %.0f%%\n", data.Main.Humidity)
	fmt.Fprintf(&b, "Cloud Cover: %.0f%%\n", data.Clouds.All)
	fmt.Fprintf(&b, "Wind Speed: %.1f m/s\n", data.Wind.Speed)
	if len(data.Weather) > 0 {
		fmt.Fprintf(&b, "Conditions: %s\n", data.Weather[0].Description)
	}
	return b.String(), nil
}

func (t *WeatherTool) fetchWttr(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/%g,%g?format=j1", t.wttrBaseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling wttr.in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wttr.in returned status %d", resp.StatusCode)
	}

	var data struct {
		CurrentCondition []struct {
			TempC       string `json:"temp_C"`
			Humidity    string `json:"humidity"`
			CloudCover  string `json:"cloudcover"`
			WindSpeedKm string `json:"windspeedKmph"`
			WeatherDesc []struct {
				Value string `json:"value"`
			} `json:"weatherDesc"`
		} `json:"current_condition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding wttr.in response: %w", err)
	}
	if len(data.CurrentCondition) == 0 {
		return "", fmt.Errorf("wttr.in response had no current conditions")
	}

	cur := data.CurrentCondition[0]
	var b strings.Builder
	fmt.Fprintf(&b, "Current Weather for (%g, %g)\n", lat, lon)
	fmt.Fprintf(&b, "Temperature: %s°C\n", cur.TempC)
	fmt.Fprintf(&b, "Humidity: %s%%\n", cur.Humidity)
	fmt.Fprintf(&b, "Cloud Cover: %s%%\n", cur.CloudCover)
	fmt.Fprintf(&b, "Wind Speed: %s km/h\n", cur.WindSpeedKm)
	if len(cur.WeatherDesc) > 0 {
		fmt.Fprintf(&b, "Conditions: %s\n", cur.WeatherDesc[0].Value)
	}
	return b.String(), nil
}
