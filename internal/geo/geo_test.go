package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistances(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "San Jose to Las Vegas",
			a:      Point{Lat: 37.2, Lon: -121.9},
			b:      Point{Lat: 36.1699, Lon: -115.1398},
			wantKm: 612,
			tolKm:  10,
		},
		{
			name:   "London to Paris",
			a:      Point{Lat: 51.5074, Lon: -0.1278},
			b:      Point{Lat: 48.8566, Lon: 2.3522},
			wantKm: 344,
			tolKm:  5,
		},
		{
			name:   "antipodal-ish equator span",
			a:      Point{Lat: 0, Lon: 0},
			b:      Point{Lat: 0, Lon: 180},
			wantKm: 20015,
			tolKm:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			assert.InDelta(t, tt.wantKm, got, tt.tolKm)
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{Lat: 37.2, Lon: -121.9}
	b := Point{Lat: 34.05, Lon: -118.25}

	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
}

func TestHaversineZeroAtIdentity(t *testing.T) {
	points := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 37.2, Lon: -121.9},
		{Lat: -45.0, Lon: 170.5},
	}

	for _, p := range points {
		assert.Zero(t, Haversine(p, p))
	}
}
