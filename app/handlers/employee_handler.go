package handlers

import (
	"log"

	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/amirphl/open-so-review/utils"
	"github.com/gofiber/fiber/v3"
)

// EmployeeHandlerInterface defines the contract for employee record entry points
type EmployeeHandlerInterface interface {
	ReviewAction(c fiber.Ctx) error
	OpenReview(c fiber.Ctx) error
}

// EmployeeHandler serves the "Email" action shown on an employee record
type EmployeeHandler struct {
	flow businessflow.EmployeeFlow
}

func NewEmployeeHandler(flow businessflow.EmployeeFlow) *EmployeeHandler {
	return &EmployeeHandler{flow: flow}
}

// ReviewAction reports whether the employee record offers the review action
// @Summary Employee review action
// @Tags Employees
// @Produce json
// @Param id path int true "Employee id"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewActionResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/employees/{id}/review-action [get]
func (h *EmployeeHandler) ReviewAction(c fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid employee id", "INVALID_EMPLOYEE_ID", nil)
	}

	ctx := requestContext(c, "/api/v1/employees/:id/review-action", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	resp, err := h.flow.ReviewAction(ctx, id)
	if err != nil {
		if businessflow.IsEmployeeNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Employee not found", "EMPLOYEE_NOT_FOUND", nil)
		}
		log.Println("Review action lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load employee", businessErrorCode(err, "EMPLOYEE_LOOKUP_FAILED"), nil)
	}

	return successResponse(c, fiber.StatusOK, "Review action retrieved", resp)
}

// OpenReview redirects an employee record's "Email" action to the first review page
// @Summary Open review form
// @Tags Employees
// @Param id path int true "Employee id"
// @Success 302
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /employees/{id}/review [get]
func (h *EmployeeHandler) OpenReview(c fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid employee id", "INVALID_EMPLOYEE_ID", nil)
	}

	ctx := requestContext(c, "/employees/:id/review", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	resp, err := h.flow.ReviewAction(ctx, id)
	if err != nil {
		if businessflow.IsEmployeeNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Employee not found", "EMPLOYEE_NOT_FOUND", nil)
		}
		log.Println("Review redirect failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load employee", businessErrorCode(err, "EMPLOYEE_LOOKUP_FAILED"), nil)
	}
	if !resp.ShowEmailAction {
		return errorResponse(c, fiber.StatusNotFound, "Employee is not an active sales rep", "NOT_A_SALES_REP", nil)
	}

	return c.Redirect().Status(fiber.StatusFound).To(resp.ReviewURL)
}
