package handlers

import (
	"log"
	"net/url"
	"slices"
	"strings"

	"github.com/amirphl/open-so-review/app/dto"
	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/amirphl/open-so-review/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ReviewHandlerInterface defines the contract for the open sales order review handlers
type ReviewHandlerInterface interface {
	ShowForm(c fiber.Ctx) error
	SubmitForm(c fiber.Ctx) error
	GetPage(c fiber.Ctx) error
	Submit(c fiber.Ctx) error
}

// ReviewHandler serves the review form and its JSON equivalents
type ReviewHandler struct {
	flow      businessflow.ReviewFlow
	validator *validator.Validate
}

func NewReviewHandler(flow businessflow.ReviewFlow) *ReviewHandler {
	return &ReviewHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ShowForm renders the review form of one page of a sales rep's open sales orders
// @Summary Review form
// @Tags Review
// @Produce html
// @Param salesRepId query int true "Sales rep employee id"
// @Param pageIndex query int false "Zero based page index"
// @Success 200 {string} string "HTML form"
// @Failure 400 {string} string "Missing sales rep id"
// @Failure 404 {string} string "Sales rep not found"
// @Router /review/open-sales-orders [get]
func (h *ReviewHandler) ShowForm(c fiber.Ctx) error {
	repID, ok := parseID(c.Query("salesRepId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("salesRepId is required")
	}
	req := &dto.ReviewPageRequest{SalesRepID: repID, PageIndex: parsePageIndex(c.Query("pageIndex"))}

	ctx := requestContext(c, businessflow.ReviewPagePath, utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	view, err := h.flow.ReviewPage(ctx, req, clientMetadata(c))
	if err != nil {
		if businessflow.IsSalesRepNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("Sales rep not found")
		}
		log.Println("Review page failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Review page could not be rendered")
	}

	body, err := renderReviewPage(view)
	if err != nil {
		log.Println("Review page rendering failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Review page could not be rendered")
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(body)
}

// SubmitForm handles the posted review form and answers with one line per step outcome
// @Summary Submit review form
// @Tags Review
// @Accept x-www-form-urlencoded
// @Produce plain
// @Success 200 {string} string "Step outcomes"
// @Failure 400 {string} string "Invalid submission"
// @Failure 409 {string} string "Submission in progress"
// @Router /review/open-sales-orders [post]
func (h *ReviewHandler) SubmitForm(c fiber.Ctx) error {
	form, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form body")
	}
	req, ok := parseReviewForm(form)
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("salesRepId is required")
	}

	ctx := requestContext(c, businessflow.ReviewPagePath, utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	result, err := h.flow.Submit(ctx, req, clientMetadata(c))
	if err != nil {
		status, message := submitErrorStatus(err)
		if status == fiber.StatusInternalServerError {
			log.Println("Review submission failed", err)
		}
		return c.Status(status).SendString(message)
	}

	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.SendString(strings.Join(result.Messages, "\n"))
}

// GetPage returns one page of the review as JSON
// @Summary Get review page
// @Tags Review
// @Produce json
// @Param sales_rep_id query int true "Sales rep employee id"
// @Param page_index query int false "Zero based page index"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewPageView}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/review/pages [get]
func (h *ReviewHandler) GetPage(c fiber.Ctx) error {
	repID, _ := parseID(c.Query("sales_rep_id"))
	req := dto.ReviewPageRequest{SalesRepID: repID, PageIndex: parsePageIndex(c.Query("page_index"))}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx := requestContext(c, "/api/v1/review/pages", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	view, err := h.flow.ReviewPage(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsSalesRepNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Sales rep not found", "SALES_REP_NOT_FOUND", nil)
		}
		log.Println("Review page failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load review page", "REVIEW_PAGE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Review page retrieved", view)
}

// Submit handles a JSON review submission
// @Summary Submit review
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.ReviewSubmitRequest true "Selected sales orders with reasons"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionResult}
// @Failure 400 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/review/submissions [post]
func (h *ReviewHandler) Submit(c fiber.Ctx) error {
	var req dto.ReviewSubmitRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx := requestContext(c, "/api/v1/review/submissions", utils.DefaultRequestTimeout)
	defer cancelRequestContext(ctx)

	result, err := h.flow.Submit(ctx, &req, clientMetadata(c))
	if err != nil {
		status, message := submitErrorStatus(err)
		code := "SUBMISSION_FAILED"
		switch {
		case businessflow.IsInvalidPageToken(err):
			code = "INVALID_PAGE_TOKEN"
		case businessflow.IsSelectionNotServed(err):
			code = "SELECTION_NOT_SERVED"
		case businessflow.IsSubmissionInProgress(err):
			code = "SUBMISSION_IN_PROGRESS"
		case businessflow.IsSalesRepIDRequired(err):
			code = "VALIDATION_ERROR"
		default:
			log.Println("Review submission failed", err)
		}
		return errorResponse(c, status, message, code, nil)
	}

	message := "Review submitted"
	if result.NoneSelected {
		message = businessflow.MsgNoneSelected
	}
	return successResponse(c, fiber.StatusOK, message, result)
}

func submitErrorStatus(err error) (int, string) {
	switch {
	case businessflow.IsSalesRepIDRequired(err):
		return fiber.StatusBadRequest, "salesRepId is required"
	case businessflow.IsInvalidPageToken(err):
		return fiber.StatusBadRequest, "The review page has expired. Reload it and submit again."
	case businessflow.IsSelectionNotServed(err):
		return fiber.StatusBadRequest, "Selected sales orders do not match the review page."
	case businessflow.IsSubmissionInProgress(err):
		return fiber.StatusConflict, "Another submission for this sales rep is in progress."
	default:
		return fiber.StatusInternalServerError, "Submission failed"
	}
}

// parseReviewForm reads salesRepId, pageToken and the select_{id} / reason_{id} pairs.
// Selections come back in ascending id order, the order the rows were listed in.
func parseReviewForm(form url.Values) (*dto.ReviewSubmitRequest, bool) {
	repID, ok := parseID(form.Get("salesRepId"))
	if !ok {
		return nil, false
	}

	req := &dto.ReviewSubmitRequest{
		SalesRepID: repID,
		PageToken:  form.Get("pageToken"),
		Selections: []dto.ReviewSelection{},
	}

	var ids []uint
	for key := range form {
		raw, found := strings.CutPrefix(key, "select_")
		if !found || !isChecked(form.Get(key)) {
			continue
		}
		if id, ok := parseID(raw); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	for _, id := range ids {
		req.Selections = append(req.Selections, dto.ReviewSelection{
			SalesOrderID: id,
			Reason:       strings.TrimSpace(form.Get("reason_" + utoa(id))),
		})
	}
	return req, true
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "t", "true", "1", "yes":
		return true
	}
	return false
}
