package businessflow

import (
	"context"
	"testing"

	"github.com/amirphl/open-so-review/models"
	"github.com/amirphl/open-so-review/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewAction(t *testing.T) {
	inactive := salesRep(3, nil)
	inactive.IsActive = utils.ToPtr(false)
	repo := newFakeEmployeeRepo(
		salesRep(testRepID, nil),
		&models.Employee{ID: 8, EntityID: "Clerk", IsSalesRep: utils.ToPtr(false)},
		inactive,
	)
	flow := NewEmployeeFlow(repo, "https://erp.example.com/")

	tests := []struct {
		name     string
		id       uint
		wantShow bool
		wantURL  string
	}{
		{name: "sales rep", id: testRepID, wantShow: true, wantURL: "https://erp.example.com/review/open-sales-orders?pageIndex=0&salesRepId=42"},
		{name: "not a sales rep", id: 8},
		{name: "inactive sales rep", id: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := flow.ReviewAction(context.Background(), tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantShow, resp.ShowEmailAction)
			assert.Equal(t, tt.wantURL, resp.ReviewURL)
		})
	}

	_, err := flow.ReviewAction(context.Background(), 77)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestReviewURL(t *testing.T) {
	flow := NewEmployeeFlow(newFakeEmployeeRepo(salesRep(testRepID, nil)), "")

	url, err := flow.ReviewURL(context.Background(), testRepID, 2)
	require.NoError(t, err)
	assert.Equal(t, "/review/open-sales-orders?pageIndex=2&salesRepId=42", url)

	url, err = flow.ReviewURL(context.Background(), testRepID, -4)
	require.NoError(t, err)
	assert.Equal(t, "/review/open-sales-orders?pageIndex=0&salesRepId=42", url)

	_, err = flow.ReviewURL(context.Background(), 99, 0)
	assert.ErrorIs(t, err, ErrSalesRepNotFound)
}
