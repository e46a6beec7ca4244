package handlers

import (
	"MenuLens/domain"
	"MenuLens/internal/api/presenters"
	"MenuLens/pkg/scan"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScanHandler interface {
		ScanMenu(c *fiber.Ctx) error
		GetScanHistory(c *fiber.Ctx) error
		GetScanDetail(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		validator:   validator,
	}
}

func (h *scanHandler) ScanMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ScanMenuRequest)

	file, err := c.FormFile("menu_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.MenuImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedScanMenu, err)
	}

	res, err := h.scanService.ScanMenu(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrExtractionExhausted) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedMenuUnreadable, err)
		}
		if errors.Is(err, domain.ErrStructuringFailed) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedMenuStructure, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedScanMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessScanMenu)
}

func (h *scanHandler) GetScanHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	scans, count, err := h.scanService.GetScanHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScanHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"scans": scans,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetScanHistory)
}

func (h *scanHandler) GetScanDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scanID := c.Params("id")

	res, err := h.scanService.GetScanByID(c.Context(), scanID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrScanNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetScanDetail, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScanDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetScanDetail)
}
