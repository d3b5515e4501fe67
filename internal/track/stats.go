package track

import (
	"math"
	"time"

	"backend-smartdiary/internal/shared/geo"
)

// ComputeStats derives summary statistics from an ordered point sequence
// in a single pass. It is a pure function: same input, same output, no
// state between calls. Malformed or missing fields never produce an
// error; each metric is simply reported as absent when its inputs are
// incomplete.
func ComputeStats(points []TrackPoint) Stats {
	if len(points) < 2 {
		return Stats{}
	}

	var (
		totalDistance float64
		elevationGain float64
		elevationLoss float64
		elevations    []float64
		latitudes     []float64
		longitudes    []float64
		timestamps    []time.Time
	)

	for i, p := range points {
		if p.Latitude != nil && p.Longitude != nil {
			latitudes = append(latitudes, *p.Latitude)
			longitudes = append(longitudes, *p.Longitude)

			// A leg counts only if the point at the previous raw index
			// also carries coordinates. A coordinate-less point voids
			// the legs on both of its sides; the chain is not re-spliced
			// across it.
			if i > 0 {
				prev := points[i-1]
				if prev.Latitude != nil && prev.Longitude != nil {
					totalDistance += geo.HaversineM(*prev.Latitude, *prev.Longitude, *p.Latitude, *p.Longitude)
				}
			}
		}

		if p.Elevation != nil {
			elevations = append(elevations, *p.Elevation)
			if n := len(elevations); n > 1 {
				diff := *p.Elevation - elevations[n-2]
				if diff > 0 {
					elevationGain += diff
				} else {
					elevationLoss += -diff
				}
			}
		}

		if p.Timestamp != nil {
			if ts, ok := parseTimestamp(*p.Timestamp); ok {
				timestamps = append(timestamps, ts)
			}
		}
	}

	stats := Stats{DistanceMeters: round2(totalDistance)}

	if len(timestamps) >= 2 {
		secs := int64(timestamps[len(timestamps)-1].Sub(timestamps[0]) / time.Second)
		stats.DurationSeconds = &secs
	}

	if len(elevations) > 0 {
		gain := round2(elevationGain)
		loss := round2(elevationLoss)
		stats.ElevationGain = &gain
		stats.ElevationLoss = &loss

		maxElev, minElev := elevations[0], elevations[0]
		for _, e := range elevations[1:] {
			if e > maxElev {
				maxElev = e
			}
			if e < minElev {
				minElev = e
			}
		}
		stats.MaxElevation = &maxElev
		stats.MinElevation = &minElev
	}

	if stats.DurationSeconds != nil && *stats.DurationSeconds > 0 {
		// speed of exactly 0 is reported as absent
		if speed := totalDistance / float64(*stats.DurationSeconds); speed != 0 {
			rounded := round2(speed)
			stats.AvgSpeed = &rounded
		}
	}

	if len(latitudes) > 0 {
		minLat, maxLat := latitudes[0], latitudes[0]
		for _, lat := range latitudes[1:] {
			if lat < minLat {
				minLat = lat
			}
			if lat > maxLat {
				maxLat = lat
			}
		}
		minLon, maxLon := longitudes[0], longitudes[0]
		for _, lon := range longitudes[1:] {
			if lon < minLon {
				minLon = lon
			}
			if lon > maxLon {
				maxLon = lon
			}
		}
		stats.MinLat = &minLat
		stats.MaxLat = &maxLat
		stats.MinLon = &minLon
		stats.MaxLon = &maxLon
	}

	return stats
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp accepts ISO-8601 timestamps with a Z suffix, an explicit
// offset, or no zone at all (taken as UTC), and bare dates (taken as
// midnight UTC). Anything else is dropped.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
