package track

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
	RegisterRoutes(app.Group("/tracks"), svc, func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	})
	return app
}

func TestTrackHandlersCreateAndStats(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, nil))

	mock.ExpectQuery(`INSERT INTO tracks`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	body, _ := json.Marshal(CreateRequest{
		Name: "Hike",
		TrackData: []TrackPoint{
			{Latitude: fp(0), Longitude: fp(0)},
			{Latitude: fp(0), Longitude: fp(1)},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/tracks/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create track status: %v %v", err, resp.StatusCode)
	}

	var created Track
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DistanceMeters != 111194.93 {
		t.Fatalf("unexpected distance in response: %v", created.DistanceMeters)
	}

	mock.ExpectQuery(`SELECT distance_meters, duration_seconds`).
		WithArgs("track-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"distance_meters", "duration_seconds", "elevation_gain", "elevation_loss",
			"max_elevation", "min_elevation", "avg_speed",
		}).AddRow(fp(111194.93), nil, nil, nil, nil, nil, nil))

	req = httptest.NewRequest(http.MethodGet, "/tracks/track-1/stats", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get stats status: %v", err)
	}

	var stats TrackStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.DistanceMeters == nil || *stats.DistanceMeters != 111194.93 {
		t.Fatalf("unexpected stats distance: %+v", stats.DistanceMeters)
	}
	if stats.DurationSeconds != nil {
		t.Fatalf("expected duration absent in payload")
	}
}

func TestTrackHandlersCreateMissingData(t *testing.T) {
	app := testApp(NewService(nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/tracks/", bytes.NewReader([]byte(`{"name":"no points"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestTrackHandlersCreateParseError(t *testing.T) {
	app := testApp(NewService(nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/tracks/", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestTrackHandlersList(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, nil))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tracks`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`SELECT id, user_id, entry_id, name, description, track_data`).
		WithArgs("user-1", 5, 5).
		WillReturnRows(trackRows())

	req := httptest.NewRequest(http.MethodGet, "/tracks/?page=2&page_size=5", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}

	var list ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Page != 2 || list.PageSize != 5 {
		t.Fatalf("unexpected pagination: %+v", list)
	}
}

func TestTrackHandlersListBadDate(t *testing.T) {
	app := testApp(NewService(nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/tracks/?start_date=yesterday", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for invalid date")
	}
}

func TestTrackHandlersGetNotFound(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, nil))

	mock.ExpectQuery(`SELECT id, user_id, entry_id, name, description, track_data`).
		WithArgs("track-x", "user-1").
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/tracks/track-x", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}
}

func TestTrackHandlersUpdateAndDelete(t *testing.T) {
	mock := newMock(t)
	app := testApp(NewService(mock, nil))

	mock.ExpectQuery(`SELECT id, user_id, entry_id, name, description, track_data`).
		WithArgs("track-1", "user-1").
		WillReturnRows(trackRows().AddRow(
			"track-1", "user-1", nil, "Old", "", []byte(`[]`),
			0.0, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil,
			nil, nil, time.Now(), time.Now()))
	mock.ExpectQuery(`UPDATE tracks SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	req := httptest.NewRequest(http.MethodPut, "/tracks/track-1", bytes.NewReader([]byte(`{"name":"New"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: %v", err)
	}

	mock.ExpectExec(`DELETE FROM tracks`).
		WithArgs("track-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	req = httptest.NewRequest(http.MethodDelete, "/tracks/track-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v", err)
	}
}
