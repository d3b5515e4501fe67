package entry

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

const entryColumns = `id, user_id, COALESCE(title,''), COALESCE(content,''), latitude, longitude,
	       COALESCE(location_name,''), COALESCE(mood,''), rating, tags, weather,
	       COALESCE(activity,''), COALESCE(ai_summary,''), ai_tags, entry_date, created_at, updated_at`

func (s *Service) Create(ctx context.Context, userID string, input Entry) (Entry, error) {
	input.ID = uuid.NewString()
	input.UserID = userID
	if input.EntryDate.IsZero() {
		input.EntryDate = time.Now().UTC()
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}

	tags, err := json.Marshal(input.Tags)
	if err != nil {
		return Entry{}, err
	}
	weather, err := marshalNullable(input.Weather)
	if err != nil {
		return Entry{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO entries (id, user_id, title, content, latitude, longitude, location_name,
		                     mood, rating, tags, weather, activity, entry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at
	`, input.ID, input.UserID, input.Title, input.Content, input.Latitude, input.Longitude,
		input.LocationName, input.Mood, input.Rating, tags, weather, input.Activity, input.EntryDate)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Entry{}, err
	}

	if s.hub != nil {
		payload, _ := json.Marshal(map[string]string{"type": "entry_created", "entry_id": input.ID})
		s.hub.Broadcast(userID, payload)
	}

	return input, nil
}

func (s *Service) List(ctx context.Context, userID string, page, pageSize int, startDate, endDate *time.Time) (ListResponse, error) {
	where := ` FROM entries WHERE user_id=$1`
	args := []any{userID}

	if startDate != nil {
		args = append(args, *startDate)
		where += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		where += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return ListResponse{}, err
	}

	query := `SELECT ` + entryColumns + where + " ORDER BY entry_date DESC"
	args = append(args, pageSize)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return ListResponse{}, err
	}
	defer rows.Close()

	items := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return ListResponse{}, err
		}
		items = append(items, e)
	}

	return ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Entry, error) {
	row := s.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id=$1 AND user_id=$2`, id, userID)
	return scanEntry(row)
}

// ForDay returns the user's entries whose entry_date falls on the given
// calendar day (UTC), oldest first. The AI module summarizes these.
func (s *Service) ForDay(ctx context.Context, userID string, day time.Time) ([]Entry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)

	rows, err := s.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE user_id=$1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, patch UpdateRequest) (Entry, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return Entry{}, err
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Content != nil {
		e.Content = *patch.Content
	}
	if patch.Latitude != nil {
		e.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		e.Longitude = patch.Longitude
	}
	if patch.LocationName != nil {
		e.LocationName = *patch.LocationName
	}
	if patch.Mood != nil {
		e.Mood = *patch.Mood
	}
	if patch.Rating != nil {
		e.Rating = patch.Rating
	}
	if patch.Tags != nil {
		e.Tags = patch.Tags
	}
	if patch.Weather != nil {
		e.Weather = patch.Weather
	}
	if patch.Activity != nil {
		e.Activity = *patch.Activity
	}
	if patch.EntryDate != nil {
		e.EntryDate = *patch.EntryDate
	}

	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return Entry{}, err
	}
	weather, err := marshalNullable(e.Weather)
	if err != nil {
		return Entry{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE entries
		SET title=$2, content=$3, latitude=$4, longitude=$5, location_name=$6, mood=$7,
		    rating=$8, tags=$9, weather=$10, activity=$11, entry_date=$12, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, e.ID, e.Title, e.Content, e.Latitude, e.Longitude, e.LocationName, e.Mood,
		e.Rating, tags, weather, e.Activity, e.EntryDate)
	if err := row.Scan(&e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM entries WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	var tags, aiTags, weather []byte
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Latitude, &e.Longitude,
		&e.LocationName, &e.Mood, &e.Rating, &tags, &weather,
		&e.Activity, &e.AISummary, &aiTags, &e.EntryDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &e.Tags); err != nil {
			return Entry{}, err
		}
	}
	if len(aiTags) > 0 {
		if err := json.Unmarshal(aiTags, &e.AITags); err != nil {
			return Entry{}, err
		}
	}
	if len(weather) > 0 {
		if err := json.Unmarshal(weather, &e.Weather); err != nil {
			return Entry{}, err
		}
	}
	return e, nil
}

func marshalNullable(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
