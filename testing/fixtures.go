package testing

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/open-so-review/models"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB          *TestDB
	Employees   repository.EmployeeRepository
	Customers   repository.CustomerRepository
	SalesOrders repository.SalesOrderRepository
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{
		DB:          db,
		Employees:   repository.NewEmployeeRepository(db.DB),
		Customers:   repository.NewCustomerRepository(db.DB),
		SalesOrders: repository.NewSalesOrderRepository(db.DB),
	}
}

// CreateTestEmployee creates an employee. A nil email leaves the employee unreachable.
func (tf *TestFixtures) CreateTestEmployee(ctx context.Context, entityID string, email *string, salesRep bool, supervisorID *uint) (*models.Employee, error) {
	employee := &models.Employee{
		EntityID:     entityID,
		FirstName:    "Test",
		LastName:     entityID,
		Email:        email,
		IsSalesRep:   utils.ToPtr(salesRep),
		SupervisorID: supervisorID,
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.Employees.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create test employee: %w", err)
	}
	return employee, nil
}

// CreateTestCustomer creates a customer; an empty company name falls back to the entity id on display
func (tf *TestFixtures) CreateTestCustomer(ctx context.Context, companyName string) (*models.Customer, error) {
	customer := &models.Customer{
		EntityID: fmt.Sprintf("CUST-%06d", rand.Intn(1000000)),
	}
	if companyName != "" {
		customer.CompanyName = &companyName
	}
	if err := tf.Customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	return customer, nil
}

// CreateTestSalesOrder creates a sales order for the rep and customer with the given status and age
func (tf *TestFixtures) CreateTestSalesOrder(ctx context.Context, salesRepID, customerID uint, status, amount string, createdAt time.Time) (*models.SalesOrder, error) {
	order := &models.SalesOrder{
		TranID:        fmt.Sprintf("SO-%d-%06d", salesRepID, rand.Intn(1000000)),
		CustomerID:    customerID,
		SalesRepID:    salesRepID,
		Memo:          "fixture",
		Amount:        decimal.RequireFromString(amount),
		Status:        status,
		BillingStatus: utils.ToPtr(false),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := tf.SalesOrders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create test sales order: %w", err)
	}
	return order, nil
}
