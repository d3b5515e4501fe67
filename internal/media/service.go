package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"time"

	"backend-smartdiary/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db    db.Querier
	store ObjectStore
}

func NewService(db db.Querier, store ObjectStore) *Service {
	return &Service{db: db, store: store}
}

const mediaColumns = `id, user_id, entry_id, COALESCE(filename,''), original_filename,
	       COALESCE(mime_type,''), file_size, storage_key, thumbnail_key,
	       latitude, longitude, metadata, captured_at, created_at, updated_at`

// objectKey builds a per-user, date-partitioned key. The original file
// name only contributes its extension.
func objectKey(userID, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s%s", userID, now.UTC().Format("2006/01/02"), uuid.NewString(), path.Ext(fileName))
}

// Presign hands out an upload URL for a fresh storage key. No row is
// written; the client registers the metadata via Create once the upload
// went through.
func (s *Service) Presign(userID string, req PresignRequest) (PresignResponse, error) {
	key := objectKey(userID, req.FileName, time.Now())

	uploadURL, err := s.store.PresignPut(key, req.MimeType)
	if err != nil {
		return PresignResponse{}, err
	}

	return PresignResponse{
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresIn:  presignExpirySeconds,
	}, nil
}

func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Media, error) {
	m := Media{
		ID:               uuid.NewString(),
		UserID:           userID,
		EntryID:          req.EntryID,
		FileName:         req.FileName,
		OriginalFileName: req.OriginalFileName,
		MimeType:         req.MimeType,
		FileSize:         req.FileSize,
		StorageKey:       req.StorageKey,
		ThumbnailKey:     req.ThumbnailKey,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Metadata:         req.Metadata,
		CapturedAt:       req.CapturedAt,
	}

	metadata, err := marshalNullable(m.Metadata)
	if err != nil {
		return Media{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO media (id, user_id, entry_id, filename, original_filename, mime_type,
		                   file_size, storage_key, thumbnail_key, latitude, longitude,
		                   metadata, captured_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at
	`, m.ID, m.UserID, m.EntryID, m.FileName, m.OriginalFileName, m.MimeType,
		m.FileSize, m.StorageKey, m.ThumbnailKey, m.Latitude, m.Longitude,
		metadata, m.CapturedAt)
	if err := row.Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		return Media{}, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, userID string, page, pageSize int, entryID *string, capturedAfter, capturedBefore *time.Time) (ListResponse, error) {
	where := ` FROM media WHERE user_id=$1`
	args := []any{userID}

	if entryID != nil {
		args = append(args, *entryID)
		where += fmt.Sprintf(" AND entry_id=$%d", len(args))
	}
	if capturedAfter != nil {
		args = append(args, *capturedAfter)
		where += fmt.Sprintf(" AND captured_at >= $%d", len(args))
	}
	if capturedBefore != nil {
		args = append(args, *capturedBefore)
		where += fmt.Sprintf(" AND captured_at <= $%d", len(args))
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return ListResponse{}, err
	}

	query := `SELECT ` + mediaColumns + where + " ORDER BY captured_at DESC"
	args = append(args, pageSize)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return ListResponse{}, err
	}
	defer rows.Close()

	items := []Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return ListResponse{}, err
		}
		items = append(items, m)
	}

	return ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Media, error) {
	row := s.db.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id=$1 AND user_id=$2`, id, userID)
	return scanMedia(row)
}

func (s *Service) DownloadURL(ctx context.Context, userID, id string) (DownloadResponse, error) {
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return DownloadResponse{}, err
	}
	url, err := s.store.PresignGet(m.StorageKey)
	if err != nil {
		return DownloadResponse{}, err
	}
	return DownloadResponse{DownloadURL: url, ExpiresIn: presignExpirySeconds}, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, patch UpdateRequest) (Media, error) {
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return Media{}, err
	}
	if patch.EntryID != nil {
		m.EntryID = patch.EntryID
	}
	if patch.Latitude != nil {
		m.Latitude = patch.Latitude
	}
	if patch.Longitude != nil {
		m.Longitude = patch.Longitude
	}
	if patch.CapturedAt != nil {
		m.CapturedAt = patch.CapturedAt
	}

	row := s.db.QueryRow(ctx, `
		UPDATE media SET entry_id=$2, latitude=$3, longitude=$4, captured_at=$5, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, m.ID, m.EntryID, m.Latitude, m.Longitude, m.CapturedAt)
	if err := row.Scan(&m.UpdatedAt); err != nil {
		return Media{}, err
	}
	return m, nil
}

// Delete removes the bucket objects best-effort, then the row. A failed
// object delete is logged, not surfaced: the row is the source of truth.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteObject(ctx, m.StorageKey); err != nil {
		log.Printf("media: delete object %s: %v", m.StorageKey, err)
	}
	if m.ThumbnailKey != nil {
		if err := s.store.DeleteObject(ctx, *m.ThumbnailKey); err != nil {
			log.Printf("media: delete thumbnail %s: %v", *m.ThumbnailKey, err)
		}
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM media WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMedia(row pgx.Row) (Media, error) {
	var m Media
	var metadata []byte
	if err := row.Scan(&m.ID, &m.UserID, &m.EntryID, &m.FileName, &m.OriginalFileName,
		&m.MimeType, &m.FileSize, &m.StorageKey, &m.ThumbnailKey,
		&m.Latitude, &m.Longitude, &metadata, &m.CapturedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Media{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &m.Metadata); err != nil {
			return Media{}, err
		}
	}
	return m, nil
}

func marshalNullable(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
