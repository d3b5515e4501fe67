package geo

import (
	"math"
	"testing"
)

func TestHaversineOneDegreeLongitude(t *testing.T) {
	// one degree of longitude at the equator
	d := HaversineM(0, 0, 0, 1)
	if math.Abs(d-111195) > 1 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineSamePoint(t *testing.T) {
	if d := HaversineM(48.1351, 11.582, 48.1351, 11.582); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestHaversineAntipodal(t *testing.T) {
	d := HaversineM(0, 0, 0, 180)
	half := earthRadiusM * math.Pi
	if math.Abs(d-half) > 1 {
		t.Fatalf("expected half circumference, got %v", d)
	}
}

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}
