// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/open-so-review/models"
	"gorm.io/gorm"
)

// SalesOrderRepositoryImpl implements SalesOrderRepository interface
type SalesOrderRepositoryImpl struct {
	*BaseRepository[models.SalesOrder, models.SalesOrderFilter]
}

// NewSalesOrderRepository creates a new sales order repository
func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository {
	return &SalesOrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SalesOrder, models.SalesOrderFilter](db),
	}
}

// applyFilter qualifies every column so the same filter works on joined queries
func (r *SalesOrderRepositoryImpl) applyFilter(query *gorm.DB, filter models.SalesOrderFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("sales_orders.id = ?", *filter.ID)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("sales_orders.id IN ?", filter.IDs)
	}
	if filter.TranID != nil {
		query = query.Where("sales_orders.tran_id = ?", *filter.TranID)
	}
	if filter.SalesRepID != nil {
		query = query.Where("sales_orders.sales_rep_id = ?", *filter.SalesRepID)
	}
	if filter.CustomerID != nil {
		query = query.Where("sales_orders.customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("sales_orders.status = ?", *filter.Status)
	}
	if len(filter.StatusNotIn) > 0 {
		query = query.Where("sales_orders.status NOT IN ?", filter.StatusNotIn)
	}
	if filter.BillingStatus != nil {
		query = query.Where("sales_orders.billing_status = ?", *filter.BillingStatus)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("sales_orders.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("sales_orders.created_at < ?", *filter.CreatedBefore)
	}
	if filter.PendingOrStaleBefore != nil {
		query = query.Where(
			"(sales_orders.status = ? OR (sales_orders.status IN ? AND sales_orders.created_at < ?))",
			models.SalesOrderStatusPendingApproval,
			models.OpenSalesOrderStatuses,
			*filter.PendingOrStaleBefore,
		)
	}
	return query
}

// ByFilter retrieves sales orders based on filter criteria
func (r *SalesOrderRepositoryImpl) ByFilter(ctx context.Context, filter models.SalesOrderFilter, orderBy string, limit, offset int) ([]*models.SalesOrder, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.SalesOrder{}), filter)

	if orderBy == "" {
		orderBy = "sales_orders.id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []*models.SalesOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to find sales orders: %w", err)
	}
	return orders, nil
}

// Lines returns one window of sales orders with their customer names, in id order
func (r *SalesOrderRepositoryImpl) Lines(ctx context.Context, filter models.SalesOrderFilter, limit, offset int) ([]*SalesOrderLine, error) {
	query := r.getDB(ctx).Table("sales_orders").
		Select(`sales_orders.id AS id,
			sales_orders.tran_id AS tran_id,
			sales_orders.memo AS memo,
			sales_orders.amount AS amount,
			sales_orders.created_at AS created_at,
			sales_orders.customer_id AS customer_id,
			COALESCE(NULLIF(c.company_name, ''), c.entity_id) AS customer_name,
			sales_orders.sales_rep_id AS sales_rep_id`).
		Joins("LEFT JOIN customers c ON c.id = sales_orders.customer_id")

	query = r.applyFilter(query, filter).Order("sales_orders.id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*SalesOrderLine
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sales order lines: %w", err)
	}
	return rows, nil
}

// Count returns the number of sales orders matching the filter
func (r *SalesOrderRepositoryImpl) Count(ctx context.Context, filter models.SalesOrderFilter) (int64, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.SalesOrder{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sales orders: %w", err)
	}
	return count, nil
}

// Exists checks if any sales order matching the filter exists
func (r *SalesOrderRepositoryImpl) Exists(ctx context.Context, filter models.SalesOrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
