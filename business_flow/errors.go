// Package businessflow contains the core business logic and use cases of the open sales order review
package businessflow

import (
	"errors"
	"fmt"
)

// Error taxonomy of the review workflow. Step failures wrap one of these.
var (
	ErrQueryFailed        = errors.New("sales order query failed")
	ErrRecordFailed       = errors.New("record load or save failed")
	ErrExportFailed       = errors.New("export file creation failed")
	ErrNotificationFailed = errors.New("notification dispatch failed")
)

// Business flow error constants
var (
	// Review errors
	ErrSalesRepIDRequired   = errors.New("sales rep id is required")
	ErrSalesRepNotFound     = errors.New("sales rep not found")
	ErrNoOpenSalesOrders    = errors.New("no open sales orders")
	ErrInvalidPageToken     = errors.New("page token is missing, expired or invalid")
	ErrSelectionNotServed   = errors.New("selected sales order was not served on the submitted page")
	ErrSubmissionInProgress = errors.New("another submission for this sales rep is in progress")

	// Lookup errors
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrSalesOrderNotFound = errors.New("sales order not found")
	ErrExportFileNotFound = errors.New("export file not found")
)

// Step codes reported on submission results and API errors
const (
	CodeQueryFailed        = "QUERY_FAILED"
	CodeRecordFailed       = "RECORD_FAILED"
	CodeExportFailed       = "EXPORT_FAILED"
	CodeNotificationFailed = "NOTIFICATION_FAILED"
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// queryError wraps a gateway failure so that it matches ErrQueryFailed
func queryError(message string, err error) *BusinessError {
	return NewBusinessError(CodeQueryFailed, message, fmt.Errorf("%w: %w", ErrQueryFailed, err))
}

// recordError wraps a record store failure so that it matches ErrRecordFailed
func recordError(message string, err error) *BusinessError {
	return NewBusinessError(CodeRecordFailed, message, fmt.Errorf("%w: %w", ErrRecordFailed, err))
}

func IsQueryFailed(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

func IsRecordFailed(err error) bool {
	return errors.Is(err, ErrRecordFailed)
}

func IsExportFailed(err error) bool {
	return errors.Is(err, ErrExportFailed)
}

func IsNotificationFailed(err error) bool {
	return errors.Is(err, ErrNotificationFailed)
}

func IsSalesRepIDRequired(err error) bool {
	return errors.Is(err, ErrSalesRepIDRequired)
}

func IsSalesRepNotFound(err error) bool {
	return errors.Is(err, ErrSalesRepNotFound)
}

func IsNoOpenSalesOrders(err error) bool {
	return errors.Is(err, ErrNoOpenSalesOrders)
}

func IsInvalidPageToken(err error) bool {
	return errors.Is(err, ErrInvalidPageToken)
}

func IsSelectionNotServed(err error) bool {
	return errors.Is(err, ErrSelectionNotServed)
}

func IsSubmissionInProgress(err error) bool {
	return errors.Is(err, ErrSubmissionInProgress)
}

func IsEmployeeNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

func IsSalesOrderNotFound(err error) bool {
	return errors.Is(err, ErrSalesOrderNotFound)
}

func IsExportFileNotFound(err error) bool {
	return errors.Is(err, ErrExportFileNotFound)
}
