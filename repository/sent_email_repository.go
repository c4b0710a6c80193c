// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/open-so-review/models"
	"gorm.io/gorm"
)

// SentEmailRepositoryImpl implements SentEmailRepository interface
type SentEmailRepositoryImpl struct {
	*BaseRepository[models.SentEmail, models.SentEmailFilter]
}

// NewSentEmailRepository creates a new sent email repository
func NewSentEmailRepository(db *gorm.DB) SentEmailRepository {
	return &SentEmailRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SentEmail, models.SentEmailFilter](db),
	}
}

func (r *SentEmailRepositoryImpl) applyFilter(query *gorm.DB, filter models.SentEmailFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.SalesRepID != nil {
		query = query.Where("sales_rep_id = ?", *filter.SalesRepID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves sent emails based on filter criteria
func (r *SentEmailRepositoryImpl) ByFilter(ctx context.Context, filter models.SentEmailFilter, orderBy string, limit, offset int) ([]*models.SentEmail, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.SentEmail{}), filter)

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

	var emails []*models.SentEmail
	if err := query.Find(&emails).Error; err != nil {
		return nil, fmt.Errorf("failed to find sent emails: %w", err)
	}
	return emails, nil
}

// Count returns the number of sent emails matching the filter
func (r *SentEmailRepositoryImpl) Count(ctx context.Context, filter models.SentEmailFilter) (int64, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.SentEmail{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sent emails: %w", err)
	}
	return count, nil
}

// Exists checks if any sent email matching the filter exists
func (r *SentEmailRepositoryImpl) Exists(ctx context.Context, filter models.SentEmailFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
