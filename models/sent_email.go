// Package models contains domain entities for the open sales order review service
package models

import (
	"time"

	"github.com/amirphl/open-so-review/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Sent email statuses
const (
	SentEmailStatusSent   = "sent"
	SentEmailStatusFailed = "failed"
)

// SentEmail is the audit row of one notification dispatch
// Table: sent_emails
type SentEmail struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UUID                uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_sent_emails_uuid" json:"uuid"`
	SalesRepID          uint           `gorm:"not null;index:idx_sent_emails_sales_rep_id" json:"sales_rep_id"`
	RecipientEmployeeID *uint          `json:"recipient_employee_id,omitempty"`
	RecipientEmail      string         `gorm:"size:255;not null" json:"recipient_email"`
	Fallback            bool           `gorm:"not null;default:false" json:"fallback"`
	Subject             string         `gorm:"size:512;not null" json:"subject"`
	AttachmentIDs       pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"attachment_ids"`
	Status              string         `gorm:"size:16;not null" json:"status"`
	Error               *string        `gorm:"type:text" json:"error,omitempty"`
	CreatedAt           time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sent_emails_created_at" json:"created_at"`
}

func (SentEmail) TableName() string {
	return "sent_emails"
}

// BeforeCreate ensures UUID and timestamps are set.
func (s *SentEmail) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// SentEmailFilter represents filter criteria for sent email queries
type SentEmailFilter struct {
	ID         *uint
	SalesRepID *uint
	Status     *string
}
