// Package models contains domain entities for the open sales order review service
package models

import (
	"time"

	"github.com/amirphl/open-so-review/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DelayReason records why a sales order is still open. Rows are append-only.
// Table: delay_reasons
type DelayReason struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_delay_reasons_uuid" json:"uuid"`
	SalesOrderID uint      `gorm:"not null;index:idx_delay_reasons_sales_order_id" json:"sales_order_id"`
	SalesRepID   uint      `gorm:"not null;index:idx_delay_reasons_sales_rep_id" json:"sales_rep_id"`
	Reason       string    `gorm:"type:text;not null;default:''" json:"reason"`
	RecordedAt   time.Time `gorm:"not null;index:idx_delay_reasons_recorded_at" json:"recorded_at"`
	CreatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	SalesOrder *SalesOrder `gorm:"foreignKey:SalesOrderID" json:"sales_order,omitempty"`
}

func (DelayReason) TableName() string {
	return "delay_reasons"
}

// BeforeCreate ensures UUID and timestamps are set.
func (d *DelayReason) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	if d.RecordedAt.IsZero() {
		d.RecordedAt = utils.UTCNow()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = utils.UTCNow()
	}
	return nil
}

// DelayReasonFilter represents filter criteria for delay reason queries
type DelayReasonFilter struct {
	ID             *uint
	SalesOrderID   *uint
	SalesRepID     *uint
	RecordedAfter  *time.Time
	RecordedBefore *time.Time
}
