package media

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func testApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/media"), svc, func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	})
	return app
}

func TestMediaHandlersPresign(t *testing.T) {
	app := testApp(NewService(nil, &fakeStore{}))

	body, _ := json.Marshal(PresignRequest{FileName: "photo.jpg", MimeType: "image/jpeg"})
	req := httptest.NewRequest(http.MethodPost, "/media/presign", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("presign status: %v %v", err, resp.StatusCode)
	}

	var out PresignResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode presign response: %v", err)
	}
	if out.UploadURL == "" || out.StorageKey == "" || out.ExpiresIn != 3600 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestMediaHandlersPresignMissingFields(t *testing.T) {
	app := testApp(NewService(nil, &fakeStore{}))

	req := httptest.NewRequest(http.MethodPost, "/media/presign", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestMediaHandlersRegister(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, &fakeStore{}))

	mock.ExpectQuery(`INSERT INTO media`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	size := int64(2048)
	body, _ := json.Marshal(CreateRequest{
		FileName:   "x.jpg",
		MimeType:   "image/jpeg",
		FileSize:   &size,
		StorageKey: "user-1/2024/05/03/x.jpg",
		Metadata:   map[string]any{"iso": 200},
	})
	req := httptest.NewRequest(http.MethodPost, "/media/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v %v", err, resp.StatusCode)
	}

	var out Media
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode media: %v", err)
	}
	if out.ID == "" || out.StorageKey != "user-1/2024/05/03/x.jpg" {
		t.Fatalf("unexpected media: %+v", out)
	}
	if out.FileSize == nil || *out.FileSize != 2048 {
		t.Fatalf("expected file size kept: %+v", out)
	}
}

func TestMediaHandlersRegisterMissingStorageKey(t *testing.T) {
	app := testApp(NewService(nil, &fakeStore{}))

	body := []byte(`{"filename":"x.jpg","mime_type":"image/jpeg"}`)
	req := httptest.NewRequest(http.MethodPost, "/media/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestMediaHandlersDownload(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, &fakeStore{}))

	mock.ExpectQuery(`FROM media WHERE id=\$1 AND user_id=\$2`).
		WithArgs("media-1", "user-1").
		WillReturnRows(mediaRows().AddRow(
			"media-1", "user-1", nil, "x.jpg", nil,
			"", nil, "key-1", nil,
			nil, nil, nil, nil, time.Now(), time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/media/media-1/download", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("download status: %v", err)
	}

	var out DownloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode download response: %v", err)
	}
	if out.DownloadURL == "" || out.ExpiresIn != 3600 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestMediaHandlersGetNotFound(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, &fakeStore{}))

	mock.ExpectQuery(`FROM media WHERE id=\$1 AND user_id=\$2`).
		WithArgs("media-x", "user-1").
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/media/media-x", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}
}

func TestMediaHandlersDelete(t *testing.T) {
	mock := newMock(t)
	store := &fakeStore{}
	app := testApp(NewService(mock, store))

	mock.ExpectQuery(`FROM media WHERE id=\$1 AND user_id=\$2`).
		WithArgs("media-1", "user-1").
		WillReturnRows(mediaRows().AddRow(
			"media-1", "user-1", nil, "x.jpg", nil,
			"", nil, "key-1", nil,
			nil, nil, nil, nil, time.Now(), time.Now()))
	mock.ExpectExec(`DELETE FROM media`).
		WithArgs("media-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	req := httptest.NewRequest(http.MethodDelete, "/media/media-1", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected object delete attempted")
	}
}
