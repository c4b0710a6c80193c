// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/open-so-review/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// EmployeeRepository defines operations for employees (sales reps and supervisors)
type EmployeeRepository interface {
	Repository[models.Employee, models.EmployeeFilter]
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
}

// SalesOrderLine is a sales order joined with its customer's display name
type SalesOrderLine struct {
	ID           uint            `gorm:"column:id"`
	TranID       string          `gorm:"column:tran_id"`
	Memo         string          `gorm:"column:memo"`
	Amount       decimal.Decimal `gorm:"column:amount"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	CustomerID   uint            `gorm:"column:customer_id"`
	CustomerName *string         `gorm:"column:customer_name"`
	SalesRepID   uint            `gorm:"column:sales_rep_id"`
}

// SalesOrderRepository defines operations for sales orders.
// Count + Lines together page through a search: Count gives the total, Lines fetches one window.
type SalesOrderRepository interface {
	Repository[models.SalesOrder, models.SalesOrderFilter]
	Lines(ctx context.Context, filter models.SalesOrderFilter, limit, offset int) ([]*SalesOrderLine, error)
}

// DelayReasonWithOrder is a delay reason joined with the order and customer it refers to
type DelayReasonWithOrder struct {
	ID           uint            `gorm:"column:id"`
	UUID         string          `gorm:"column:uuid"`
	SalesOrderID uint            `gorm:"column:sales_order_id"`
	SalesRepID   uint            `gorm:"column:sales_rep_id"`
	Reason       string          `gorm:"column:reason"`
	RecordedAt   time.Time       `gorm:"column:recorded_at"`
	TranID       string          `gorm:"column:tran_id"`
	Amount       decimal.Decimal `gorm:"column:amount"`
	CustomerName *string         `gorm:"column:customer_name"`
}

// DelayReasonRepository defines operations for delay reasons
type DelayReasonRepository interface {
	Repository[models.DelayReason, models.DelayReasonFilter]
	ListWithOrder(ctx context.Context, filter models.DelayReasonFilter, limit, offset int) ([]*DelayReasonWithOrder, error)
}

// ExportFileRepository defines operations for stored export artifacts
type ExportFileRepository interface {
	Repository[models.ExportFile, models.ExportFileFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.ExportFile, error)
}

// SentEmailRepository defines operations for the notification audit trail
type SentEmailRepository interface {
	Repository[models.SentEmail, models.SentEmailFilter]
}
