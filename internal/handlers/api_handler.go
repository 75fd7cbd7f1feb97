package handlers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/errs"
	"github.com/universalexpress181/universal-express-sub001/internal/middleware"
	"github.com/universalexpress181/universal-express-sub001/internal/service"
	"github.com/universalexpress181/universal-express-sub001/internal/web"
)

// APIHandler serves the key-authenticated v1 surface.
type APIHandler struct {
	shipments *service.ShipmentService
	logger    *zap.Logger
}

func NewAPIHandler(shipments *service.ShipmentService, logger *zap.Logger) *APIHandler {
	return &APIHandler{shipments: shipments, logger: logger}
}

// CreateShipments accepts a single shipment object or an array of them.
func (h *APIHandler) CreateShipments(c *fiber.Ctx) error {
	key := middleware.APIKeyFromContext(c)
	if key == nil {
		return web.UnauthorizedResponse(c)
	}

	requests, err := decodeCreateBody(c.Body())
	if err != nil {
		return web.BadRequestResponse(c, "Invalid request body", nil)
	}

	inputs := make([]service.CreateShipmentInput, len(requests))
	for i, request := range requests {
		inputs[i] = request.toInput()
	}

	shipments, err := h.shipments.CreateBatch(c.Context(), key.UserID, inputs)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return web.BadRequestResponse(c, err.Error(), nil)
		}
		h.logger.Error("v1 shipment create error", zap.Error(err))
		return web.InternalServerErrorResponse(c, "Shipment creation failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Shipments created",
		"data":    mapV1Items(shipments),
	})
}

type trackBulkRequest struct {
	AWBs []string `json:"awbs"`
}

// TrackBulk resolves up to 100 waybill codes owned by the calling key's user.
func (h *APIHandler) TrackBulk(c *fiber.Ctx) error {
	key := middleware.APIKeyFromContext(c)
	if key == nil {
		return web.UnauthorizedResponse(c)
	}

	var request trackBulkRequest
	if err := c.BodyParser(&request); err != nil {
		return web.BadRequestResponse(c, "Invalid request body", nil)
	}

	tracked, err := h.shipments.TrackBulk(c.Context(), key.UserID, request.AWBs)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return web.BadRequestResponse(c, err.Error(), nil)
		}
		h.logger.Error("v1 bulk track error", zap.Error(err))
		return web.InternalServerErrorResponse(c, "Tracking lookup failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":         true,
		"total_requested": len(request.AWBs),
		"total_found":     len(tracked),
		"data":            mapTrackedList(tracked),
	})
}

// TrackOne resolves a single waybill code owned by the calling key's user.
// Foreign shipments look exactly like missing ones.
func (h *APIHandler) TrackOne(c *fiber.Ctx) error {
	key := middleware.APIKeyFromContext(c)
	if key == nil {
		return web.UnauthorizedResponse(c)
	}

	awbCode := c.Query("awb")
	if awbCode == "" {
		return web.BadRequestResponse(c, "awb query parameter is required", nil)
	}

	tracked, err := h.shipments.TrackForUser(c.Context(), key.UserID, awbCode)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return web.NotFoundResponse(c, "Shipment not found")
		}
		h.logger.Error("v1 track error", zap.String("awb_code", awbCode), zap.Error(err))
		return web.InternalServerErrorResponse(c, "Tracking lookup failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    mapTracked(tracked),
	})
}

// decodeCreateBody accepts either a single JSON object or a JSON array of
// shipment requests.
func decodeCreateBody(body []byte) ([]createShipmentRequest, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errs.ErrValidation
	}

	if trimmed[0] == '[' {
		var requests []createShipmentRequest
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, err
		}
		return requests, nil
	}

	var request createShipmentRequest
	if err := json.Unmarshal(trimmed, &request); err != nil {
		return nil, err
	}
	return []createShipmentRequest{request}, nil
}
