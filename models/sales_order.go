// Package models contains domain entities for the open sales order review service
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sales order statuses
const (
	SalesOrderStatusPendingApproval    = "pending_approval"
	SalesOrderStatusPendingFulfillment = "pending_fulfillment"
	SalesOrderStatusOpen               = "open"
	SalesOrderStatusClosed             = "closed"
	SalesOrderStatusBilled             = "billed"
)

// OpenSalesOrderStatuses are the statuses of orders that are approved but not yet fulfilled
var OpenSalesOrderStatuses = []string{SalesOrderStatusPendingFulfillment, SalesOrderStatusOpen}

// ClosedSalesOrderStatuses never show up in a review
var ClosedSalesOrderStatuses = []string{SalesOrderStatusClosed, SalesOrderStatusBilled}

// SalesOrder is the header of a sales transaction owned by a sales rep
// Table: sales_orders
// Amount keeps the scale it was written with (numeric without typmod)
type SalesOrder struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TranID        string          `gorm:"size:64;not null;uniqueIndex:uk_sales_orders_tran_id" json:"tran_id"`
	CustomerID    uint            `gorm:"not null;index:idx_sales_orders_customer_id" json:"customer_id"`
	SalesRepID    uint            `gorm:"not null;index:idx_sales_orders_sales_rep_id" json:"sales_rep_id"`
	Memo          string          `gorm:"type:text;not null;default:''" json:"memo"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Status        string          `gorm:"size:32;not null;index:idx_sales_orders_status" json:"status"`
	BillingStatus *bool           `gorm:"default:false" json:"billing_status"`
	CreatedAt     time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sales_orders_created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (SalesOrder) TableName() string {
	return "sales_orders"
}

// SalesOrderFilter represents filter criteria for sales order queries.
// PendingOrStaleBefore selects pending approval orders plus open orders created before the given time.
type SalesOrderFilter struct {
	ID                   *uint
	IDs                  []uint
	TranID               *string
	SalesRepID           *uint
	CustomerID           *uint
	Status               *string
	StatusNotIn          []string
	BillingStatus        *bool
	CreatedAfter         *time.Time
	CreatedBefore        *time.Time
	PendingOrStaleBefore *time.Time
}
