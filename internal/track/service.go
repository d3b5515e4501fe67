package track

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend-smartdiary/internal/db"
	"backend-smartdiary/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

const trackColumns = `id, user_id, entry_id, name, description, track_data,
	       distance_meters, duration_seconds, elevation_gain, elevation_loss,
	       max_elevation, min_elevation, avg_speed, min_lat, max_lat, min_lon, max_lon,
	       started_at, ended_at, created_at, updated_at`

// Create computes statistics from the submitted point sequence and
// persists them alongside the raw points. Stats are always derived from
// the full sequence, never patched incrementally.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Track, error) {
	stats := ComputeStats(req.TrackData)

	data, err := json.Marshal(req.TrackData)
	if err != nil {
		return Track{}, err
	}

	tr := Track{
		ID:          uuid.NewString(),
		UserID:      userID,
		EntryID:     req.EntryID,
		Name:        req.Name,
		Description: req.Description,
		TrackData:   req.TrackData,
		Stats:       stats,
		StartedAt:   req.StartedAt,
		EndedAt:     req.EndedAt,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO tracks (id, user_id, entry_id, name, description, track_data,
		                    distance_meters, duration_seconds, elevation_gain, elevation_loss,
		                    max_elevation, min_elevation, avg_speed, min_lat, max_lat, min_lon, max_lon,
		                    started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at, updated_at
	`, tr.ID, tr.UserID, tr.EntryID, tr.Name, tr.Description, data,
		stats.DistanceMeters, stats.DurationSeconds, stats.ElevationGain, stats.ElevationLoss,
		stats.MaxElevation, stats.MinElevation, stats.AvgSpeed,
		stats.MinLat, stats.MaxLat, stats.MinLon, stats.MaxLon,
		tr.StartedAt, tr.EndedAt)
	if err := row.Scan(&tr.CreatedAt, &tr.UpdatedAt); err != nil {
		return Track{}, err
	}

	if s.hub != nil {
		payload, _ := json.Marshal(map[string]string{"type": "track_created", "track_id": tr.ID})
		s.hub.Broadcast(userID, payload)
	}

	return tr, nil
}

func (s *Service) List(ctx context.Context, userID string, page, pageSize int, startDate, endDate *time.Time) (ListResponse, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE user_id=$1`
	args := []any{userID}

	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(" AND started_at >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(" AND ended_at <= $%d", len(args))
	}
	query += " ORDER BY started_at DESC"

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM tracks WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return ListResponse{}, err
	}

	args = append(args, pageSize)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return ListResponse{}, err
	}
	defer rows.Close()

	items := []Track{}
	for rows.Next() {
		tr, err := scanTrack(rows)
		if err != nil {
			return ListResponse{}, err
		}
		items = append(items, tr)
	}

	return ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Track, error) {
	row := s.db.QueryRow(ctx, `SELECT `+trackColumns+` FROM tracks WHERE id=$1 AND user_id=$2`, id, userID)
	return scanTrack(row)
}

// GetStats returns the persisted statistics for a track verbatim.
func (s *Service) GetStats(ctx context.Context, userID, id string) (TrackStats, error) {
	row := s.db.QueryRow(ctx, `
		SELECT distance_meters, duration_seconds, elevation_gain, elevation_loss,
		       max_elevation, min_elevation, avg_speed
		FROM tracks WHERE id=$1 AND user_id=$2
	`, id, userID)

	var st TrackStats
	if err := row.Scan(&st.DistanceMeters, &st.DurationSeconds, &st.ElevationGain, &st.ElevationLoss,
		&st.MaxElevation, &st.MinElevation, &st.AvgSpeed); err != nil {
		return TrackStats{}, err
	}
	return st, nil
}

// Update patches name, description and entry link only. Statistics stay
// as computed at upload; a changed point list means a new upload.
func (s *Service) Update(ctx context.Context, userID, id string, patch UpdateRequest) (Track, error) {
	tr, err := s.Get(ctx, userID, id)
	if err != nil {
		return Track{}, err
	}
	if patch.Name != nil {
		tr.Name = *patch.Name
	}
	if patch.Description != nil {
		tr.Description = *patch.Description
	}
	if patch.EntryID != nil {
		tr.EntryID = patch.EntryID
	}

	row := s.db.QueryRow(ctx, `
		UPDATE tracks SET name=$2, description=$3, entry_id=$4, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, tr.ID, tr.Name, tr.Description, tr.EntryID)
	if err := row.Scan(&tr.UpdatedAt); err != nil {
		return Track{}, err
	}
	return tr, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tracks WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTrack(row pgx.Row) (Track, error) {
	var tr Track
	var data []byte
	if err := row.Scan(&tr.ID, &tr.UserID, &tr.EntryID, &tr.Name, &tr.Description, &data,
		&tr.DistanceMeters, &tr.DurationSeconds, &tr.ElevationGain, &tr.ElevationLoss,
		&tr.MaxElevation, &tr.MinElevation, &tr.AvgSpeed,
		&tr.MinLat, &tr.MaxLat, &tr.MinLon, &tr.MaxLon,
		&tr.StartedAt, &tr.EndedAt, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
		return Track{}, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &tr.TrackData); err != nil {
			return Track{}, err
		}
	}
	return tr, nil
}
