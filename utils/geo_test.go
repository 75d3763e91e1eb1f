package utils

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		{"same point", 40.7128, -74.0060, 40.7128, -74.0060, 0, 0.001},
		{"one degree of latitude", 0, 0, 1, 0, 111195, 50},
		{"London to Paris", 51.5074, -0.1278, 48.8566, 2.3522, 343500, 1000},
		{"antipodal", 0, 0, 0, 180, math.Pi * 6371000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("got %.1fm, want %.1fm ± %.1f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(40.7128, -74.0060, 34.0522, -118.2437)
	b := HaversineDistance(34.0522, -118.2437, 40.7128, -74.0060)
	if math.Abs(a-b) > 1e-6 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}
