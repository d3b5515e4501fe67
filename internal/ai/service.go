package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"backend-smartdiary/internal/entry"

	"github.com/redis/go-redis/v9"
)

const summaryCacheTTL = time.Hour

// EntrySource is the slice of the entry service the AI features need.
type EntrySource interface {
	ForDay(ctx context.Context, userID string, day time.Time) ([]entry.Entry, error)
	Get(ctx context.Context, userID, id string) (entry.Entry, error)
}

type Service struct {
	client  *Client
	entries EntrySource
	redis   *redis.Client
}

func NewService(client *Client, entries EntrySource, rdb *redis.Client) *Service {
	return &Service{client: client, entries: entries, redis: rdb}
}

func (s *Service) complete(ctx context.Context, system, user string, maxTokens int) string {
	if s.client == nil {
		return ""
	}
	reply, err := s.client.ChatCompletion(ctx, system, user, maxTokens)
	if err != nil {
		log.Printf("ai: chat completion: %v", err)
		return ""
	}
	return reply
}

// stripFences unwraps ```json ... ``` (or bare ```) blocks the model
// tends to wrap its JSON in.
func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}

func (s *Service) SummarizeDay(ctx context.Context, userID string, day time.Time) (DaySummary, error) {
	dateStr := day.UTC().Format("2006-01-02")
	cacheKey := fmt.Sprintf("ai:day_summary:%s:%s", userID, dateStr)

	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached DaySummary
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	entries, err := s.entries.ForDay(ctx, userID, day)
	if err != nil {
		return DaySummary{}, err
	}

	summary := s.summarizeEntries(ctx, dateStr, entries)

	if s.redis != nil {
		if raw, err := json.Marshal(summary); err == nil {
			s.redis.Set(ctx, cacheKey, raw, summaryCacheTTL)
		}
	}
	return summary, nil
}

func (s *Service) summarizeEntries(ctx context.Context, dateStr string, entries []entry.Entry) DaySummary {
	if len(entries) == 0 {
		return DaySummary{
			Date:       dateStr,
			Summary:    "Keine Einträge für diesen Tag.",
			Highlights: []string{},
			Statistics: map[string]int{"entries": 0},
		}
	}

	var lines []string
	for _, e := range entries {
		text := "- "
		if e.Title != "" {
			text += "**" + e.Title + "**: "
		}
		if e.Content != "" {
			text += truncate(e.Content, 500)
		}
		if e.LocationName != "" {
			text += " (Ort: " + e.LocationName + ")"
		}
		if e.Mood != "" {
			text += " [Stimmung: " + e.Mood + "]"
		}
		if len(e.Tags) > 0 {
			text += " #" + strings.Join(e.Tags, " #")
		}
		lines = append(lines, text)
	}

	prompt := fmt.Sprintf(`Erstelle eine kurze, persönliche Zusammenfassung für den Tag %s basierend auf diesen Tagebucheinträgen:

%s

Antworte im JSON-Format:
{
    "summary": "Eine kurze, persönliche Geschichte des Tages (2-3 Sätze)",
    "highlights": ["Highlight 1", "Highlight 2", "Highlight 3"],
    "suggested_title": "Ein passender Titel für den Tag",
    "suggested_tags": ["tag1", "tag2"]
}`, dateStr, strings.Join(lines, "\n"))

	reply := s.complete(ctx,
		"Du bist ein freundlicher Assistent, der Tagebucheinträge zusammenfasst. Antworte immer auf Deutsch und im angegebenen JSON-Format.",
		prompt, 0)

	if reply != "" {
		var data struct {
			Summary        string   `json:"summary"`
			Highlights     []string `json:"highlights"`
			SuggestedTitle *string  `json:"suggested_title"`
			SuggestedTags  []string `json:"suggested_tags"`
		}
		if err := json.Unmarshal([]byte(stripFences(reply)), &data); err == nil {
			return DaySummary{
				Date:           dateStr,
				Summary:        data.Summary,
				Highlights:     data.Highlights,
				Statistics:     map[string]int{"entries": len(entries)},
				SuggestedTitle: data.SuggestedTitle,
				SuggestedTags:  data.SuggestedTags,
			}
		}
	}

	highlights := []string{}
	for _, e := range entries {
		if len(highlights) == 3 {
			break
		}
		if e.Title != "" {
			highlights = append(highlights, e.Title)
		} else {
			highlights = append(highlights, "Eintrag")
		}
	}
	return DaySummary{
		Date:       dateStr,
		Summary:    fmt.Sprintf("Ein Tag mit %d Einträgen.", len(entries)),
		Highlights: highlights,
		Statistics: map[string]int{"entries": len(entries)},
	}
}

func (s *Service) SuggestTags(ctx context.Context, userID string, req TagSuggestionRequest) (TagSuggestion, error) {
	content := req.Content
	if req.EntryID != nil {
		if e, err := s.entries.Get(ctx, userID, *req.EntryID); err == nil {
			content = e.Content
		}
	}
	if content == "" {
		return TagSuggestion{Tags: []string{}, Categories: []string{}}, nil
	}

	contextText := "Inhalt: " + truncate(content, 1000)
	if req.Location != "" {
		contextText += "\nOrt: " + req.Location
	}
	if req.Activity != "" {
		contextText += "\nAktivität: " + req.Activity
	}

	prompt := fmt.Sprintf(`Schlage passende Tags für diesen Tagebucheintrag vor:

%s

Antworte im JSON-Format:
{
    "tags": ["tag1", "tag2", "tag3"],
    "categories": ["Kategorie1", "Kategorie2"],
    "confidence": 0.8
}`, contextText)

	reply := s.complete(ctx,
		"Du bist ein Assistent, der passende Tags für Tagebucheinträge vorschlägt. Antworte immer auf Deutsch und im angegebenen JSON-Format.",
		prompt, 500)

	if reply != "" {
		var out TagSuggestion
		if err := json.Unmarshal([]byte(stripFences(reply)), &out); err == nil {
			if out.Tags == nil {
				out.Tags = []string{}
			}
			if out.Categories == nil {
				out.Categories = []string{}
			}
			return out, nil
		}
	}
	return TagSuggestion{Tags: []string{}, Categories: []string{}}, nil
}

func (s *Service) SuggestTrip(ctx context.Context, req TripSuggestionRequest) (TripSuggestion, error) {
	interests := "Allgemein"
	if len(req.Interests) > 0 {
		interests = strings.Join(req.Interests, ", ")
	}
	end := req.EndLocation
	if end == "" {
		end = req.StartLocation + " (Rundtour)"
	}
	budget := "flexibel"
	if req.TimeBudgetHours != nil {
		budget = fmt.Sprintf("%g", *req.TimeBudgetHours)
	}
	transport := req.TransportMode
	if transport == "" {
		transport = "driving"
	}

	prompt := fmt.Sprintf(`Erstelle einen Reisevorschlag:
- Start: %s
- Ziel: %s
- Interessen: %s
- Zeitbudget: %s Stunden
- Transportmittel: %s

Antworte im JSON-Format:
{
    "route_description": "Beschreibung der Route",
    "total_distance_km": 50.0,
    "total_duration_hours": 4.0,
    "pois": [
        {
            "name": "Sehenswürdigkeit",
            "description": "Kurze Beschreibung",
            "latitude": 48.1351,
            "longitude": 11.5820,
            "category": "Kultur",
            "estimated_duration_minutes": 60,
            "rating": 4.5
        }
    ],
    "reasoning": "Warum diese Route empfohlen wird"
}`, req.StartLocation, end, interests, budget, transport)

	reply := s.complete(ctx,
		"Du bist ein erfahrener Reiseführer und Routenplaner. Erstelle detaillierte, praktische Reisevorschläge mit echten Sehenswürdigkeiten. Antworte auf Deutsch im angegebenen JSON-Format.",
		prompt, 0)

	if reply != "" {
		var out TripSuggestion
		if err := json.Unmarshal([]byte(stripFences(reply)), &out); err == nil {
			if out.POIs == nil {
				out.POIs = []POI{}
			}
			return out, nil
		}
	}

	fallbackEnd := req.EndLocation
	if fallbackEnd == "" {
		fallbackEnd = req.StartLocation
	}
	return TripSuggestion{
		RouteDescription: fmt.Sprintf("Route von %s nach %s", req.StartLocation, fallbackEnd),
		POIs:             []POI{},
		Reasoning:        "KI-Vorschläge momentan nicht verfügbar.",
	}, nil
}

func (s *Service) GuidePOI(ctx context.Context, req GuidePOIRequest) (GuidePOI, error) {
	modeText := "ausführlich mit Hintergrund und Fun Facts"
	if req.Mode == "minimal" {
		modeText = "kurz (1-2 Sätze)"
	}

	prompt := fmt.Sprintf(`Beschreibe die wichtigste Sehenswürdigkeit in der Nähe von:
Latitude: %g, Longitude: %g

Modus: %s

Antworte im JSON-Format:
{
    "poi_name": "Name der Sehenswürdigkeit",
    "text": "Beschreibung",
    "has_more": true,
    "distance_meters": 100
}`, req.Latitude, req.Longitude, modeText)

	reply := s.complete(ctx,
		"Du bist ein Reiseführer, der interessante Informationen über Sehenswürdigkeiten gibt. Antworte auf Deutsch im angegebenen JSON-Format.",
		prompt, 800)

	if reply != "" {
		var out GuidePOI
		if err := json.Unmarshal([]byte(stripFences(reply)), &out); err == nil {
			return out, nil
		}
	}
	return GuidePOI{Text: "Keine POI-Informationen verfügbar."}, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
