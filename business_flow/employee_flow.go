package businessflow

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amirphl/open-so-review/app/dto"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
)

// ReviewPagePath is where the review form is served
const ReviewPagePath = "/review/open-sales-orders"

// EmployeeFlow backs the entry points on an employee record
type EmployeeFlow interface {
	ReviewAction(ctx context.Context, employeeID uint) (*dto.ReviewActionResponse, error)
	ReviewURL(ctx context.Context, salesRepID uint, pageIndex int) (string, error)
}

// EmployeeFlowImpl implements EmployeeFlow
type EmployeeFlowImpl struct {
	employeeRepo repository.EmployeeRepository
	baseURL      string
}

func NewEmployeeFlow(employeeRepo repository.EmployeeRepository, publicBaseURL string) EmployeeFlow {
	return &EmployeeFlowImpl{
		employeeRepo: employeeRepo,
		baseURL:      strings.TrimRight(publicBaseURL, "/"),
	}
}

// ReviewAction reports whether the "Email" action is offered on the employee record.
// Only active sales reps get it.
func (f *EmployeeFlowImpl) ReviewAction(ctx context.Context, employeeID uint) (*dto.ReviewActionResponse, error) {
	employee, err := f.employeeRepo.ByID(ctx, employeeID)
	if err != nil {
		return nil, recordError("Failed to load employee", err)
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	resp := &dto.ReviewActionResponse{
		EmployeeID:   employee.ID,
		EmployeeName: employee.DisplayName(),
	}
	active := employee.IsActive == nil || *employee.IsActive
	if utils.IsTrue(employee.IsSalesRep) && active {
		resp.ShowEmailAction = true
		resp.ReviewURL = f.buildReviewURL(employee.ID, 0)
	}
	return resp, nil
}

// ReviewURL returns the review form address of a sales rep and page
func (f *EmployeeFlowImpl) ReviewURL(ctx context.Context, salesRepID uint, pageIndex int) (string, error) {
	employee, err := f.employeeRepo.ByID(ctx, salesRepID)
	if err != nil {
		return "", recordError("Failed to load employee", err)
	}
	if employee == nil {
		return "", ErrSalesRepNotFound
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	return f.buildReviewURL(employee.ID, pageIndex), nil
}

func (f *EmployeeFlowImpl) buildReviewURL(salesRepID uint, pageIndex int) string {
	q := url.Values{}
	q.Set("salesRepId", strconv.FormatUint(uint64(salesRepID), 10))
	q.Set("pageIndex", strconv.Itoa(pageIndex))
	return fmt.Sprintf("%s%s?%s", f.baseURL, ReviewPagePath, q.Encode())
}
