package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetMenu = "canonical menu retrieved successfully"
	MessageFailedGetMenu  = "failed to retrieve canonical menu"

	ErrMenuNotFound = errors.New("canonical menu not found")
)

type (
	CanonicalMenuResponse struct {
		ID          string         `json:"id"`
		ContentHash string         `json:"content_hash"`
		DishCount   int            `json:"dish_count"`
		FirstScanID string         `json:"first_scan_id,omitempty"`
		CreatedAt   time.Time      `json:"created_at"`
		Dishes      []DishResponse `json:"dishes"`
	}

	DishResponse struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Price       *float64 `json:"price"`
		Category    string   `json:"category"`
		Tags        []string `json:"tags"`
	}
)
