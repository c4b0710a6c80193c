// Package models contains domain entities for the open sales order review service
package models

import (
	"time"

	"github.com/amirphl/open-so-review/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Export file types
const (
	ExportFileTypeCSV   = "CSV"
	ExportFileTypeExcel = "EXCEL"
)

// Export storage providers
const (
	ExportProviderDatabase = "database"
	ExportProviderGCS      = "gcs"
)

// ExportFile is a generated report attached to a notification email. Rows are immutable.
// Table: export_files
// Content is only populated for the database provider; GCS objects live under ObjectKey.
type ExportFile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_export_files_uuid" json:"uuid"`
	Name        string    `gorm:"size:512;not null" json:"name"`
	FileType    string    `gorm:"size:16;not null" json:"file_type"`
	ContentType string    `gorm:"size:128;not null" json:"content_type"`
	Folder      string    `gorm:"size:255;not null;default:''" json:"folder"`
	Provider    string    `gorm:"size:16;not null" json:"provider"`
	ObjectKey   *string   `gorm:"size:1024" json:"object_key,omitempty"`
	Content     []byte    `gorm:"type:bytea" json:"-"`
	SizeBytes   int64     `gorm:"not null" json:"size_bytes"`
	SalesRepID  *uint     `gorm:"index:idx_export_files_sales_rep_id" json:"sales_rep_id,omitempty"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_export_files_created_at" json:"created_at"`
}

func (ExportFile) TableName() string {
	return "export_files"
}

// BeforeCreate ensures UUID and timestamps are set.
func (f *ExportFile) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = utils.UTCNow()
	}
	return nil
}

// ExportFileFilter represents filter criteria for export file queries
type ExportFileFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	SalesRepID *uint
	FileType   *string
}
