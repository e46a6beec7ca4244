package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessScanMenu       = "menu scanned successfully"
	MessageSuccessGetScanHistory = "scan history retrieved successfully"
	MessageSuccessGetScanDetail  = "scan detail retrieved successfully"

	MessageFailedScanMenu       = "failed to scan menu"
	MessageFailedGetScanHistory = "failed to retrieve scan history"
	MessageFailedGetScanDetail  = "failed to retrieve scan detail"
	MessageFailedMenuUnreadable = "could not extract text from menu image"
	MessageFailedMenuStructure  = "could not structure extracted menu text"

	ErrExtractionExhausted = errors.New("all extraction providers failed")
	ErrStructuringFailed   = errors.New("structuring provider returned invalid menu data")
	ErrScanNotFound        = errors.New("scan not found")
	ErrEmptyImage          = errors.New("menu image is empty")
)

// Scan result methods, surfaced verbatim to API callers.
const (
	ScanMethodDuplicateImage = "duplicate_image_hash"
	ScanMethodCanonicalReuse = "canonical_menu_reuse"
	ScanMethodNewCanonical   = "new_canonical_menu"
)

type (
	// StructuredMenu is the canonical schema the structuring provider must
	// produce. Category and dish order follows the transcription order and
	// is significant for content hashing.
	StructuredMenu struct {
		Restaurant RestaurantInfo `json:"restaurant"`
		Categories []MenuCategory `json:"categories"`
	}

	RestaurantInfo struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}

	MenuCategory struct {
		Name   string `json:"name"`
		Dishes []Dish `json:"dishes"`
	}

	Dish struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		DietaryTags []string `json:"dietary_tags"`
	}

	ScanMenuRequest struct {
		MenuImage *multipart.FileHeader `json:"menu_image" form:"menu_image" validate:"required"`
	}

	ScanMenuResult struct {
		ScanID      string        `json:"scanId"`
		Method      string        `json:"method"`
		CanonicalID string        `json:"canonicalId"`
		DishCount   int           `json:"dishCount"`
		NewDishes   bool          `json:"newDishes"`
		ExistingScan *ScanSummary `json:"existingScan,omitempty"`
	}

	ScanSummary struct {
		ID              string    `json:"id"`
		RestaurantName  string    `json:"restaurant_name"`
		Location        string    `json:"location"`
		OcrMethod       string    `json:"ocr_method"`
		ScannedAt       time.Time `json:"scanned_at"`
		CanonicalMenuID string    `json:"canonical_menu_id"`
		ImageURL        string    `json:"image_url,omitempty"`
	}

	ScanDetailResponse struct {
		ScanSummary
		MenuRawText string `json:"menu_raw_text"`
	}
)
