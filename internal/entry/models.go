package entry

import "time"

type Entry struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	LocationName string         `json:"location_name"`
	Mood         string         `json:"mood"`
	Rating       *int           `json:"rating"`
	Tags         []string       `json:"tags"`
	Weather      map[string]any `json:"weather"`
	Activity     string         `json:"activity"`
	AISummary    string         `json:"ai_summary"`
	AITags       []string       `json:"ai_tags"`
	EntryDate    time.Time      `json:"entry_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// UpdateRequest patches only the fields present in the request body;
// nil means "leave unchanged", so empty strings can clear text fields.
type UpdateRequest struct {
	Title        *string        `json:"title"`
	Content      *string        `json:"content"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	LocationName *string        `json:"location_name"`
	Mood         *string        `json:"mood"`
	Rating       *int           `json:"rating"`
	Tags         []string       `json:"tags"`
	Weather      map[string]any `json:"weather"`
	Activity     *string        `json:"activity"`
	EntryDate    *time.Time     `json:"entry_date"`
}

type ListResponse struct {
	Items    []Entry `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
