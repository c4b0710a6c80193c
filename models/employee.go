// Package models contains domain entities for the open sales order review service
package models

import (
	"strings"
	"time"
)

// Employee is a company employee; sales reps own sales orders and report to an optional supervisor.
// Table: employees
type Employee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EntityID     string    `gorm:"size:255;not null;index:idx_employees_entity_id" json:"entity_id"`
	FirstName    string    `gorm:"size:255" json:"first_name"`
	LastName     string    `gorm:"size:255" json:"last_name"`
	Email        *string   `gorm:"size:255;index:idx_employees_email" json:"email,omitempty"`
	IsSalesRep   *bool     `gorm:"default:false;index:idx_employees_is_sales_rep" json:"is_sales_rep"`
	SupervisorID *uint     `gorm:"index:idx_employees_supervisor_id" json:"supervisor_id,omitempty"`
	IsActive     *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Supervisor *Employee `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
}

func (Employee) TableName() string {
	return "employees"
}

// DisplayName returns the entity id, or the full name when no entity id is set
func (e Employee) DisplayName() string {
	if strings.TrimSpace(e.EntityID) != "" {
		return e.EntityID
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// HasEmail reports whether the employee can be reached by email
func (e Employee) HasEmail() bool {
	return e.Email != nil && strings.Contains(*e.Email, "@")
}

// EmployeeFilter represents filter criteria for employee queries
type EmployeeFilter struct {
	ID           *uint
	EntityID     *string
	Email        *string
	IsSalesRep   *bool
	SupervisorID *uint
	IsActive     *bool
}
