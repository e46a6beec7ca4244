package handlers

import (
	"MenuLens/domain"
	"MenuLens/internal/api/presenters"
	"MenuLens/pkg/scan"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type (
	MenuHandler interface {
		GetCanonicalMenu(c *fiber.Ctx) error
	}

	menuHandler struct {
		scanService scan.ScanService
	}
)

func NewMenuHandler(scanService scan.ScanService) MenuHandler {
	return &menuHandler{scanService: scanService}
}

func (h *menuHandler) GetCanonicalMenu(c *fiber.Ctx) error {
	menuID := c.Params("id")

	res, err := h.scanService.GetCanonicalMenu(c.Context(), menuID)
	if err != nil {
		if errors.Is(err, domain.ErrMenuNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetMenu, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMenu)
}
