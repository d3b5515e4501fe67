package ai

type DaySummaryRequest struct {
	Date          string `json:"date"`
	IncludeTracks bool   `json:"include_tracks"`
}

type DaySummary struct {
	Date           string         `json:"date"`
	Summary        string         `json:"summary"`
	Highlights     []string       `json:"highlights"`
	Statistics     map[string]int `json:"statistics"`
	SuggestedTitle *string        `json:"suggested_title,omitempty"`
	SuggestedTags  []string       `json:"suggested_tags,omitempty"`
}

type TagSuggestionRequest struct {
	EntryID  *string `json:"entry_id"`
	Content  string  `json:"content"`
	Location string  `json:"location"`
	Activity string  `json:"activity"`
}

type TagSuggestion struct {
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
	Confidence float64  `json:"confidence"`
}

type TripSuggestionRequest struct {
	StartLocation   string   `json:"start_location"`
	EndLocation     string   `json:"end_location"`
	Interests       []string `json:"interests"`
	TimeBudgetHours *float64 `json:"time_budget_hours"`
	TransportMode   string   `json:"transport_mode"`
}

type POI struct {
	Name                     string   `json:"name"`
	Description              string   `json:"description"`
	Latitude                 float64  `json:"latitude"`
	Longitude                float64  `json:"longitude"`
	Category                 string   `json:"category"`
	EstimatedDurationMinutes *int     `json:"estimated_duration_minutes"`
	Rating                   *float64 `json:"rating"`
}

type TripSuggestion struct {
	RouteDescription   string   `json:"route_description"`
	TotalDistanceKm    *float64 `json:"total_distance_km"`
	TotalDurationHours *float64 `json:"total_duration_hours"`
	POIs               []POI    `json:"pois"`
	Reasoning          string   `json:"reasoning"`
}

type GuidePOIRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Mode      string  `json:"mode"`
}

type GuidePOI struct {
	POIName        *string  `json:"poi_name"`
	Text           string   `json:"text"`
	HasMore        bool     `json:"has_more"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}
