// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/open-so-review/models"
	"gorm.io/gorm"
)

// EmployeeRepositoryImpl implements EmployeeRepository interface
type EmployeeRepositoryImpl struct {
	*BaseRepository[models.Employee, models.EmployeeFilter]
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &EmployeeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Employee, models.EmployeeFilter](db),
	}
}

func (r *EmployeeRepositoryImpl) applyFilter(query *gorm.DB, filter models.EmployeeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.IsSalesRep != nil {
		query = query.Where("is_sales_rep = ?", *filter.IsSalesRep)
	}
	if filter.SupervisorID != nil {
		query = query.Where("supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves employees based on filter criteria
func (r *EmployeeRepositoryImpl) ByFilter(ctx context.Context, filter models.EmployeeFilter, orderBy string, limit, offset int) ([]*models.Employee, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Employee{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var employees []*models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to find employees: %w", err)
	}
	return employees, nil
}

// Count returns the number of employees matching the filter
func (r *EmployeeRepositoryImpl) Count(ctx context.Context, filter models.EmployeeFilter) (int64, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Employee{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// Exists checks if any employee matching the filter exists
func (r *EmployeeRepositoryImpl) Exists(ctx context.Context, filter models.EmployeeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
