package models

import (
	"testing"

	"github.com/amirphl/open-so-review/utils"
	"github.com/stretchr/testify/assert"
)

func TestEmployeeDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Rep", Employee{EntityID: "Jane Rep", FirstName: "Jane", LastName: "Doe"}.DisplayName())
	assert.Equal(t, "Jane Doe", Employee{FirstName: "Jane", LastName: "Doe"}.DisplayName())
}

func TestEmployeeHasEmail(t *testing.T) {
	assert.False(t, Employee{}.HasEmail())
	assert.False(t, Employee{Email: utils.ToPtr("")}.HasEmail())
	assert.False(t, Employee{Email: utils.ToPtr("not-an-address")}.HasEmail())
	assert.True(t, Employee{Email: utils.ToPtr("boss@example.com")}.HasEmail())
}

func TestCustomerDisplayName(t *testing.T) {
	assert.Equal(t, "Acme Ltd", Customer{EntityID: "CUST-1", CompanyName: utils.ToPtr("Acme Ltd")}.DisplayName())
	assert.Equal(t, "CUST-1", Customer{EntityID: "CUST-1", CompanyName: utils.ToPtr("  ")}.DisplayName())
}
