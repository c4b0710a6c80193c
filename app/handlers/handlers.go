// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/amirphl/open-so-review/app/dto"
	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/amirphl/open-so-review/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// validationMessages flattens a validator error into readable messages
func validationMessages(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return messages
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// requestContext bounds a flow call and carries request details for logging
func requestContext(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

// cancelRequestContext releases the timer of a context built by requestContext
func cancelRequestContext(ctx context.Context) {
	if cancel, ok := ctx.Value(utils.CancelFuncKey).(context.CancelFunc); ok {
		cancel()
	}
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	return metadata
}

// parseID parses a positive integer id from a path or query value
func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// parsePageIndex reads an optional page index; anything unparsable means the first page
func parsePageIndex(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func attachment(c fiber.Ctx, name, contentType string, content []byte) error {
	if contentType != "" {
		c.Set("Content-Type", contentType)
	}
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(content)
}

func utoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// businessErrorCode returns the code carried by a BusinessError, or fallback
func businessErrorCode(err error, fallback string) string {
	var be *businessflow.BusinessError
	if errors.As(err, &be) && be.Code != "" {
		return be.Code
	}
	return fallback
}
