// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/open-so-review/models"
	"gorm.io/gorm"
)

// DelayReasonRepositoryImpl implements DelayReasonRepository interface
type DelayReasonRepositoryImpl struct {
	*BaseRepository[models.DelayReason, models.DelayReasonFilter]
}

// NewDelayReasonRepository creates a new delay reason repository
func NewDelayReasonRepository(db *gorm.DB) DelayReasonRepository {
	return &DelayReasonRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DelayReason, models.DelayReasonFilter](db),
	}
}

func (r *DelayReasonRepositoryImpl) applyFilter(query *gorm.DB, filter models.DelayReasonFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("delay_reasons.id = ?", *filter.ID)
	}
	if filter.SalesOrderID != nil {
		query = query.Where("delay_reasons.sales_order_id = ?", *filter.SalesOrderID)
	}
	if filter.SalesRepID != nil {
		query = query.Where("delay_reasons.sales_rep_id = ?", *filter.SalesRepID)
	}
	if filter.RecordedAfter != nil {
		query = query.Where("delay_reasons.recorded_at >= ?", *filter.RecordedAfter)
	}
	if filter.RecordedBefore != nil {
		query = query.Where("delay_reasons.recorded_at < ?", *filter.RecordedBefore)
	}
	return query
}

// ByFilter retrieves delay reasons based on filter criteria
func (r *DelayReasonRepositoryImpl) ByFilter(ctx context.Context, filter models.DelayReasonFilter, orderBy string, limit, offset int) ([]*models.DelayReason, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.DelayReason{}), filter)

	if orderBy == "" {
		orderBy = "delay_reasons.id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var reasons []*models.DelayReason
	if err := query.Find(&reasons).Error; err != nil {
		return nil, fmt.Errorf("failed to find delay reasons: %w", err)
	}
	return reasons, nil
}

// ListWithOrder returns delay reasons joined with order number, amount and customer name, newest first
func (r *DelayReasonRepositoryImpl) ListWithOrder(ctx context.Context, filter models.DelayReasonFilter, limit, offset int) ([]*DelayReasonWithOrder, error) {
	query := r.getDB(ctx).Table("delay_reasons").
		Select(`delay_reasons.id AS id,
			delay_reasons.uuid::text AS uuid,
			delay_reasons.sales_order_id AS sales_order_id,
			delay_reasons.sales_rep_id AS sales_rep_id,
			delay_reasons.reason AS reason,
			delay_reasons.recorded_at AS recorded_at,
			so.tran_id AS tran_id,
			so.amount AS amount,
			COALESCE(NULLIF(c.company_name, ''), c.entity_id) AS customer_name`).
		Joins("JOIN sales_orders so ON so.id = delay_reasons.sales_order_id").
		Joins("LEFT JOIN customers c ON c.id = so.customer_id")

	query = r.applyFilter(query, filter).Order("delay_reasons.recorded_at DESC, delay_reasons.id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*DelayReasonWithOrder
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list delay reasons: %w", err)
	}
	return rows, nil
}

// Count returns the number of delay reasons matching the filter
func (r *DelayReasonRepositoryImpl) Count(ctx context.Context, filter models.DelayReasonFilter) (int64, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.DelayReason{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count delay reasons: %w", err)
	}
	return count, nil
}

// Exists checks if any delay reason matching the filter exists
func (r *DelayReasonRepositoryImpl) Exists(ctx context.Context, filter models.DelayReasonFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
