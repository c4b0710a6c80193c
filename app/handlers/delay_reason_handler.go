package handlers

import (
	"log"

	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/amirphl/open-so-review/utils"
	"github.com/gofiber/fiber/v3"
)

// DelayReasonHandlerInterface defines the contract for delay reason handlers
type DelayReasonHandlerInterface interface {
	ListBySalesOrder(c fiber.Ctx) error
	ExportReport(c fiber.Ctx) error
	DownloadExport(c fiber.Ctx) error
}

// DelayReasonHandler exposes recorded delay reasons and stored export files
type DelayReasonHandler struct {
	flow businessflow.DelayReasonFlow
}

func NewDelayReasonHandler(flow businessflow.DelayReasonFlow) *DelayReasonHandler {
	return &DelayReasonHandler{flow: flow}
}

// ListBySalesOrder lists the delay reasons recorded against a sales order
// @Summary List delay reasons of a sales order
// @Tags Delay Reasons
// @Produce json
// @Param id path int true "Sales order id"
// @Success 200 {object} dto.APIResponse{data=dto.ListDelayReasonsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/sales-orders/{id}/delay-reasons [get]
func (h *DelayReasonHandler) ListBySalesOrder(c fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid sales order id", "INVALID_SALES_ORDER_ID", nil)
	}

	ctx := requestContext(c, "/api/v1/sales-orders/:id/delay-reasons", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	resp, err := h.flow.ListBySalesOrder(ctx, id)
	if err != nil {
		if businessflow.IsSalesOrderNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Sales order not found", "SALES_ORDER_NOT_FOUND", nil)
		}
		log.Println("Listing delay reasons failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list delay reasons", businessErrorCode(err, "DELAY_REASONS_FAILED"), nil)
	}

	return successResponse(c, fiber.StatusOK, "Delay reasons retrieved", resp)
}

// ExportReport downloads every delay reason of a sales rep as an XLSX workbook
// @Summary Export delay reasons of a sales rep
// @Tags Delay Reasons
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Sales rep employee id"
// @Success 200 {file} file
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/sales-reps/{id}/delay-reasons/export [get]
func (h *DelayReasonHandler) ExportReport(c fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid sales rep id", "INVALID_SALES_REP_ID", nil)
	}

	ctx := requestContext(c, "/api/v1/sales-reps/:id/delay-reasons/export", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	file, err := h.flow.ExportSalesRepReport(ctx, id)
	if err != nil {
		if businessflow.IsSalesRepNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Sales rep not found", "SALES_REP_NOT_FOUND", nil)
		}
		log.Println("Delay reason export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to export delay reasons", businessErrorCode(err, "EXPORT_FAILED"), nil)
	}

	return attachment(c, file.Name, file.ContentType, file.Content)
}

// DownloadExport downloads a CSV or spreadsheet produced by a review submission
// @Summary Download export file
// @Tags Delay Reasons
// @Param uuid path string true "Export file id"
// @Success 200 {file} file
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/exports/{uuid} [get]
func (h *DelayReasonHandler) DownloadExport(c fiber.Ctx) error {
	ctx := requestContext(c, "/api/v1/exports/:uuid", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	file, err := h.flow.DownloadExport(ctx, c.Params("uuid"))
	if err != nil {
		switch {
		case businessflow.IsExportFileNotFound(err):
			return errorResponse(c, fiber.StatusNotFound, "Export file not found", "EXPORT_FILE_NOT_FOUND", nil)
		case businessErrorCode(err, "") == "INVALID_FILE_ID":
			return errorResponse(c, fiber.StatusBadRequest, "File id must be a UUID", "INVALID_FILE_ID", nil)
		}
		log.Println("Export download failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load export file", businessErrorCode(err, "EXPORT_FAILED"), nil)
	}

	return attachment(c, file.Name, file.ContentType, file.Content)
}
