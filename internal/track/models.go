package track

import "time"

// TrackPoint is one raw GPS sample as submitted by a client. Every field
// may be absent; a point missing coordinates still occupies its position
// in the sequence.
type TrackPoint struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"`
}

// Stats holds the derived metrics for a track. Pointer fields distinguish
// "unknown" from zero.
type Stats struct {
	DistanceMeters  float64  `json:"distance_meters"`
	DurationSeconds *int64   `json:"duration_seconds"`
	ElevationGain   *float64 `json:"elevation_gain"`
	ElevationLoss   *float64 `json:"elevation_loss"`
	MaxElevation    *float64 `json:"max_elevation"`
	MinElevation    *float64 `json:"min_elevation"`
	AvgSpeed        *float64 `json:"avg_speed"`
	MinLat          *float64 `json:"min_lat"`
	MaxLat          *float64 `json:"max_lat"`
	MinLon          *float64 `json:"min_lon"`
	MaxLon          *float64 `json:"max_lon"`
}

type Track struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	EntryID     *string      `json:"entry_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	TrackData   []TrackPoint `json:"track_data"`
	Stats
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	EntryID     *string      `json:"entry_id"`
	TrackData   []TrackPoint `json:"track_data"`
	StartedAt   *time.Time   `json:"started_at"`
	EndedAt     *time.Time   `json:"ended_at"`
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	EntryID     *string `json:"entry_id"`
}

// TrackStats is the statistics read endpoint's payload.
type TrackStats struct {
	DistanceMeters  *float64 `json:"distance_meters"`
	DurationSeconds *int64   `json:"duration_seconds"`
	ElevationGain   *float64 `json:"elevation_gain"`
	ElevationLoss   *float64 `json:"elevation_loss"`
	MaxElevation    *float64 `json:"max_elevation"`
	MinElevation    *float64 `json:"min_elevation"`
	AvgSpeed        *float64 `json:"avg_speed"`
}

type ListResponse struct {
	Items    []Track `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
