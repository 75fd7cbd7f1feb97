// Package handlers maps HTTP requests onto the shipment services. Dashboard
// routes sit behind the role boundary; the v1 surface sits behind the API
// key gateway.
package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/errs"
	"github.com/universalexpress181/universal-express-sub001/internal/ingest"
	"github.com/universalexpress181/universal-express-sub001/internal/service"
	"github.com/universalexpress181/universal-express-sub001/internal/web"
)

type ShipmentHandler struct {
	shipments *service.ShipmentService
	bulk      *service.BulkService
	logger    *zap.Logger
}

func NewShipmentHandler(shipments *service.ShipmentService, bulk *service.BulkService, logger *zap.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		shipments: shipments,
		bulk:      bulk,
		logger:    logger,
	}
}

func (h *ShipmentHandler) HealthCheck(c *fiber.Ctx) error {
	return web.SuccessResponse(c, "Shipment service is healthy", fiber.Map{
		"service": "shipment-service",
		"status":  "healthy",
	})
}

// CreateShipment handles the dashboard single-creation form.
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.FormValue("userId"))
	if err != nil {
		return web.BadRequestResponse(c, "Invalid user ID", nil)
	}

	input := service.CreateShipmentInput{
		ReferenceID:   c.FormValue("reference_id"),
		ClientOrderID: c.FormValue("client_order_id"),
		SenderName:    c.FormValue("sender_name"),
		SenderAddress: c.FormValue("sender_address"),
		SenderPhone:   c.FormValue("sender_phone"),
		ReceiverName:  c.FormValue("receiver_name"),
		ReceiverAddr:  c.FormValue("receiver_address"),
		ReceiverPhone: c.FormValue("receiver_phone"),
		ReceiverCity:  c.FormValue("receiver_city"),
		ReceiverPin:   c.FormValue("receiver_pincode"),
		WeightKg:      formFloat(c, "weight"),
		DeclaredValue: formFloat(c, "declared_value"),
		PaymentMode:   c.FormValue("payment_mode"),
	}

	shipment, err := h.shipments.Create(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return web.BadRequestResponse(c, err.Error(), nil)
		}
		h.logger.Error("shipment create error", zap.Error(err))
		return web.InternalServerErrorResponse(c, "Shipment creation failed")
	}

	return web.CreatedResponse(c, "Shipment created", shipment)
}

// BulkCreate handles the dashboard spreadsheet upload. File-level problems
// are fatal; row-level problems come back as counted errors.
func (h *ShipmentHandler) BulkCreate(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.FormValue("userId"))
	if err != nil {
		return web.BadRequestResponse(c, "Invalid user ID", nil)
	}

	table, err := h.openUpload(c)
	if err != nil {
		return web.BadRequestResponse(c, err.Error(), nil)
	}

	result, err := h.bulk.BulkCreate(c.Context(), userID, table)
	if err != nil {
		h.logger.Error("bulk create error", zap.Error(err))
		return web.InternalServerErrorResponse(c, "Bulk upload failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   result.Valid,
		"errors":  result.RowErrors,
		"message": bulkCreateMessage(result),
	})
}

// BulkStatus handles the admin status-update upload: one target column, one
// reference header, one value header, applied row by row.
func (h *ShipmentHandler) BulkStatus(c *fiber.Ctx) error {
	cmd, err := ingest.NewBulkStatusCommand(
		c.FormValue("targetDbColumn"),
		c.FormValue("excelRefCol"),
		c.FormValue("excelValCol"),
	)
	if err != nil {
		return web.BadRequestResponse(c, err.Error(), nil)
	}

	table, err := h.openUpload(c)
	if err != nil {
		return web.BadRequestResponse(c, err.Error(), nil)
	}

	result, err := h.bulk.BulkStatusUpdate(c.Context(), cmd, table)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return web.BadRequestResponse(c, err.Error(), nil)
		}
		h.logger.Error("bulk status update error", zap.Error(err))
		return web.InternalServerErrorResponse(c, "Bulk status update failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": result,
	})
}

// Track serves the public tracking page lookup.
func (h *ShipmentHandler) Track(c *fiber.Ctx) error {
	awbCode := c.Params("awb")

	tracked, err := h.shipments.Track(c.Context(), awbCode)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return web.NotFoundResponse(c, "Shipment not found")
		}
		h.logger.Error("tracking lookup error", zap.String("awb_code", awbCode), zap.Error(err))
		return web.InternalServerErrorResponse(c, "Tracking lookup failed")
	}

	return c.Status(fiber.StatusOK).JSON(mapTracked(tracked))
}

func (h *ShipmentHandler) openUpload(c *fiber.Ctx) (*ingest.Table, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errs.ErrEmptyFile
	}
	return parseUpload(fileHeader)
}

func parseUpload(fileHeader *multipart.FileHeader) (*ingest.Table, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ingest.Parse(fileHeader.Filename, file)
}

func bulkCreateMessage(result *service.BulkCreateResult) string {
	if result.Invalid == 0 {
		return "All rows imported"
	}
	return strconv.Itoa(result.Valid) + " rows imported, " + strconv.Itoa(result.Invalid) + " rows failed"
}

func formFloat(c *fiber.Ctx, field string) float64 {
	value, err := strconv.ParseFloat(c.FormValue(field), 64)
	if err != nil {
		return 0
	}
	return value
}
