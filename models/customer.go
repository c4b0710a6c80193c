// Package models contains domain entities for the open sales order review service
package models

import (
	"strings"
	"time"
)

// Customer is the buyer on a sales order
// Table: customers
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntityID    string    `gorm:"size:255;not null;index:idx_customers_entity_id" json:"entity_id"`
	CompanyName *string   `gorm:"size:255" json:"company_name,omitempty"`
	Email       *string   `gorm:"size:255" json:"email,omitempty"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// DisplayName returns the company name, falling back to the entity id
func (c Customer) DisplayName() string {
	if c.CompanyName != nil && strings.TrimSpace(*c.CompanyName) != "" {
		return *c.CompanyName
	}
	return c.EntityID
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID       *uint
	EntityID *string
}
