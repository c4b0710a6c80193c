// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/open-so-review/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportFileRepositoryImpl implements ExportFileRepository interface
type ExportFileRepositoryImpl struct {
	*BaseRepository[models.ExportFile, models.ExportFileFilter]
}

// NewExportFileRepository creates a new export file repository
func NewExportFileRepository(db *gorm.DB) ExportFileRepository {
	return &ExportFileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ExportFile, models.ExportFileFilter](db),
	}
}

// ByUUID retrieves an export file by its public identifier
func (r *ExportFileRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.ExportFile, error) {
	items, err := r.ByFilter(ctx, models.ExportFileFilter{UUID: &id}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (r *ExportFileRepositoryImpl) applyFilter(query *gorm.DB, filter models.ExportFileFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.SalesRepID != nil {
		query = query.Where("sales_rep_id = ?", *filter.SalesRepID)
	}
	if filter.FileType != nil {
		query = query.Where("file_type = ?", *filter.FileType)
	}
	return query
}

// ByFilter retrieves export files based on filter criteria
func (r *ExportFileRepositoryImpl) ByFilter(ctx context.Context, filter models.ExportFileFilter, orderBy string, limit, offset int) ([]*models.ExportFile, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.ExportFile{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var files []*models.ExportFile
	if err := query.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to find export files: %w", err)
	}
	return files, nil
}

// Count returns the number of export files matching the filter
func (r *ExportFileRepositoryImpl) Count(ctx context.Context, filter models.ExportFileFilter) (int64, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.ExportFile{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count export files: %w", err)
	}
	return count, nil
}

// Exists checks if any export file matching the filter exists
func (r *ExportFileRepositoryImpl) Exists(ctx context.Context, filter models.ExportFileFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
