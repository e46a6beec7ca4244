package handlers

import (
	"MenuLens/domain"
	"MenuLens/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeScanService struct {
	result  domain.ScanMenuResult
	history []domain.ScanSummary
	total   int64
	detail  domain.ScanDetailResponse
	err     error
}

func (s *fakeScanService) ScanMenu(ctx context.Context, req domain.ScanMenuRequest, userID string) (domain.ScanMenuResult, error) {
	if s.err != nil {
		return domain.ScanMenuResult{}, s.err
	}
	return s.result, nil
}

func (s *fakeScanService) GetScanHistory(ctx context.Context, userID string, page, limit int) ([]domain.ScanSummary, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.history, s.total, nil
}

func (s *fakeScanService) GetScanByID(ctx context.Context, id string, userID string) (domain.ScanDetailResponse, error) {
	if s.err != nil {
		return domain.ScanDetailResponse{}, s.err
	}
	return s.detail, nil
}

func (s *fakeScanService) GetCanonicalMenu(ctx context.Context, id string) (domain.CanonicalMenuResponse, error) {
	return domain.CanonicalMenuResponse{}, nil
}

func setupScanTestApp(service *fakeScanService) *fiber.App {
	utils.InitValidator()
	app := fiber.New()
	handler := NewScanHandler(service, utils.Validate)

	// Stand-in for the auth middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uuid.New().String())
		return c.Next()
	})
	app.Post("/api/v1/scans", handler.ScanMenu)
	app.Get("/api/v1/scans", handler.GetScanHistory)
	app.Get("/api/v1/scans/:id", handler.GetScanDetail)
	return app
}

func newScanUploadRequest(t *testing.T) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("menu_image", "menu.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestScanMenuHandlerSuccess(t *testing.T) {
	service := &fakeScanService{result: domain.ScanMenuResult{
		ScanID:      uuid.New().String(),
		Method:      domain.ScanMethodNewCanonical,
		CanonicalID: uuid.New().String(),
		DishCount:   7,
		NewDishes:   true,
	}}
	app := setupScanTestApp(service)

	resp, err := app.Test(newScanUploadRequest(t), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		Data domain.ScanMenuResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Method != domain.ScanMethodNewCanonical {
		t.Fatalf("expected new canonical method, got %s", body.Data.Method)
	}
	if body.Data.DishCount != 7 {
		t.Fatalf("expected dishCount 7, got %d", body.Data.DishCount)
	}
}

func TestScanMenuHandlerMissingFile(t *testing.T) {
	app := setupScanTestApp(&fakeScanService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestScanMenuHandlerExtractionExhausted(t *testing.T) {
	app := setupScanTestApp(&fakeScanService{err: domain.ErrExtractionExhausted})

	resp, err := app.Test(newScanUploadRequest(t), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestScanMenuHandlerStructuringFailed(t *testing.T) {
	app := setupScanTestApp(&fakeScanService{err: domain.ErrStructuringFailed})

	resp, err := app.Test(newScanUploadRequest(t), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestGetScanHistoryHandler(t *testing.T) {
	service := &fakeScanService{
		history: []domain.ScanSummary{
			{ID: uuid.New().String(), RestaurantName: "Warung Sari", ScannedAt: time.Now()},
		},
		total: 21,
	}
	app := setupScanTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans?page=2&limit=10", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			Scans      []domain.ScanSummary `json:"scans"`
			Pagination struct {
				Page       int   `json:"page"`
				Total      int64 `json:"total"`
				TotalPages int64 `json:"total_pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data.Scans) != 1 {
		t.Fatalf("expected 1 scan, got %d", len(body.Data.Scans))
	}
	if body.Data.Pagination.Page != 2 || body.Data.Pagination.Total != 21 || body.Data.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", body.Data.Pagination)
	}
}

func TestGetScanDetailHandlerNotFound(t *testing.T) {
	app := setupScanTestApp(&fakeScanService{err: domain.ErrScanNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+uuid.New().String(), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
