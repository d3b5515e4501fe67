package media

import "time"

type Media struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	EntryID          *string        `json:"entry_id"`
	FileName         string         `json:"filename"`
	OriginalFileName *string        `json:"original_filename"`
	MimeType         string         `json:"mime_type"`
	FileSize         *int64         `json:"file_size"`
	StorageKey       string         `json:"storage_key"`
	ThumbnailKey     *string        `json:"thumbnail_key"`
	Latitude         *float64       `json:"latitude"`
	Longitude        *float64       `json:"longitude"`
	Metadata         map[string]any `json:"metadata"`
	CapturedAt       *time.Time     `json:"captured_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type PresignRequest struct {
	FileName string `json:"filename"`
	MimeType string `json:"mime_type"`
}

type PresignResponse struct {
	UploadURL  string `json:"upload_url"`
	StorageKey string `json:"storage_key"`
	ExpiresIn  int64  `json:"expires_in"`
}

// CreateRequest registers metadata for an object the client already
// uploaded through its presigned URL.
type CreateRequest struct {
	EntryID          *string        `json:"entry_id"`
	FileName         string         `json:"filename"`
	OriginalFileName *string        `json:"original_filename"`
	MimeType         string         `json:"mime_type"`
	FileSize         *int64         `json:"file_size"`
	StorageKey       string         `json:"storage_key"`
	ThumbnailKey     *string        `json:"thumbnail_key"`
	Latitude         *float64       `json:"latitude"`
	Longitude        *float64       `json:"longitude"`
	Metadata         map[string]any `json:"metadata"`
	CapturedAt       *time.Time     `json:"captured_at"`
}

type UpdateRequest struct {
	EntryID    *string    `json:"entry_id"`
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	CapturedAt *time.Time `json:"captured_at"`
}

type ListResponse struct {
	Items    []Media `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type DownloadResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int64  `json:"expires_in"`
}
