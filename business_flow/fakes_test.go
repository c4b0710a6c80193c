package businessflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amirphl/open-so-review/app/services"
	"github.com/amirphl/open-so-review/config"
	"github.com/amirphl/open-so-review/models"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeEmployeeRepo struct {
	repository.EmployeeRepository
	employees map[uint]*models.Employee
	errByID   map[uint]error
}

func newFakeEmployeeRepo(employees ...*models.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: map[uint]*models.Employee{}, errByID: map[uint]error{}}
	for _, e := range employees {
		r.employees[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) ByID(_ context.Context, id uint) (*models.Employee, error) {
	if err := r.errByID[id]; err != nil {
		return nil, err
	}
	return r.employees[id], nil
}

type fakeSalesOrderRepo struct {
	repository.SalesOrderRepository
	lines      []*repository.SalesOrderLine
	countErr   error
	linesErr   error
	lastFilter models.SalesOrderFilter
}

func (r *fakeSalesOrderRepo) matches(filter models.SalesOrderFilter, l *repository.SalesOrderLine) bool {
	if filter.SalesRepID != nil && l.SalesRepID != *filter.SalesRepID {
		return false
	}
	if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, l.ID) {
		return false
	}
	return true
}

func (r *fakeSalesOrderRepo) Count(_ context.Context, filter models.SalesOrderFilter) (int64, error) {
	r.lastFilter = filter
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, l := range r.lines {
		if r.matches(filter, l) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSalesOrderRepo) Lines(_ context.Context, filter models.SalesOrderFilter, limit, offset int) ([]*repository.SalesOrderLine, error) {
	r.lastFilter = filter
	if r.linesErr != nil {
		return nil, r.linesErr
	}
	var out []*repository.SalesOrderLine
	for _, l := range r.lines {
		if r.matches(filter, l) {
			out = append(out, l)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSalesOrderRepo) ByID(_ context.Context, id uint) (*models.SalesOrder, error) {
	for _, l := range r.lines {
		if l.ID == id {
			return &models.SalesOrder{ID: l.ID, TranID: l.TranID, SalesRepID: l.SalesRepID, Amount: l.Amount}, nil
		}
	}
	return nil, nil
}

type fakeDelayReasonRepo struct {
	repository.DelayReasonRepository
	mu      sync.Mutex
	saved   []*models.DelayReason
	failFor map[uint]bool
	rows    []*repository.DelayReasonWithOrder
	listErr error
}

func (r *fakeDelayReasonRepo) Save(_ context.Context, d *models.DelayReason) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[d.SalesOrderID] {
		return errors.New("insert failed")
	}
	d.ID = uint(len(r.saved) + 1)
	r.saved = append(r.saved, d)
	return nil
}

func (r *fakeDelayReasonRepo) ListWithOrder(_ context.Context, filter models.DelayReasonFilter, _, _ int) ([]*repository.DelayReasonWithOrder, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*repository.DelayReasonWithOrder
	for _, row := range r.rows {
		if filter.SalesOrderID != nil && row.SalesOrderID != *filter.SalesOrderID {
			continue
		}
		if filter.SalesRepID != nil && row.SalesRepID != *filter.SalesRepID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeSentEmailRepo struct {
	repository.SentEmailRepository
	saved []*models.SentEmail
}

func (r *fakeSentEmailRepo) Save(_ context.Context, e *models.SentEmail) error {
	r.saved = append(r.saved, e)
	return nil
}

type fakeFileStore struct {
	mu        sync.Mutex
	files     map[uuid.UUID]*services.StoredFile
	order     []uuid.UUID
	failNames map[string]bool
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[uuid.UUID]*services.StoredFile{}, failNames: map[string]bool{}}
}

func (s *fakeFileStore) CreateFile(_ context.Context, req services.CreateFileRequest) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNames[req.Name] {
		return uuid.Nil, fmt.Errorf("cannot store %s", req.Name)
	}
	id := uuid.New()
	s.files[id] = &services.StoredFile{
		ID:          id,
		Name:        req.Name,
		FileType:    req.FileType,
		ContentType: req.ContentType,
		Content:     req.Content,
	}
	s.order = append(s.order, id)
	return id, nil
}

func (s *fakeFileStore) LoadFile(_ context.Context, id uuid.UUID) (*services.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return nil, services.ErrFileNotFound
	}
	return f, nil
}

func (s *fakeFileStore) byName(name string) *services.StoredFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if s.files[id].Name == name {
			return s.files[id]
		}
	}
	return nil
}

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string) (func(), error) {
	return func() {}, services.ErrLockNotObtained
}

// reviewFixture wires a ReviewFlowImpl to in-memory collaborators
type reviewFixture struct {
	flow        *ReviewFlowImpl
	employees   *fakeEmployeeRepo
	orders      *fakeSalesOrderRepo
	reasons     *fakeDelayReasonRepo
	sentEmails  *fakeSentEmailRepo
	files       *fakeFileStore
	mailer      *services.MockEmailProvider
	pageTokens  services.PageTokenService
	fixedNow    time.Time
	adminConfig config.AdminConfig
}

const testRepID = uint(42)

func newReviewFixture(reviewCfg config.ReviewConfig, employees ...*models.Employee) *reviewFixture {
	tokens, err := services.NewPageTokenService(time.Hour, "test-issuer", "test-audience", "test-secret-key-for-jwt-signing-32-chars")
	if err != nil {
		panic(err)
	}

	fx := &reviewFixture{
		employees:   newFakeEmployeeRepo(employees...),
		orders:      &fakeSalesOrderRepo{},
		reasons:     &fakeDelayReasonRepo{failFor: map[uint]bool{}},
		sentEmails:  &fakeSentEmailRepo{},
		files:       newFakeFileStore(),
		mailer:      services.NewMockEmailProvider().(*services.MockEmailProvider),
		pageTokens:  tokens,
		fixedNow:    time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC),
		adminConfig: config.AdminConfig{EmployeeID: 5, Email: "admin@example.com", Name: "NetSuite Administrator"},
	}

	flow := NewReviewFlow(
		fx.employees,
		fx.orders,
		fx.reasons,
		fx.sentEmails,
		fx.files,
		services.NewNotificationService(fx.mailer),
		fx.pageTokens,
		nil,
		nil,
		reviewCfg,
		config.EmailConfig{FromEmail: "noreply@example.com", FromName: "Sales Ops"},
		fx.adminConfig,
		config.CacheConfig{RedisPrefix: "test:"},
		config.StorageConfig{Folder: "open-sales-orders"},
	).(*ReviewFlowImpl)
	flow.now = func() time.Time { return fx.fixedNow }
	fx.flow = flow
	return fx
}

func defaultReviewConfig() config.ReviewConfig {
	return config.ReviewConfig{
		PageSize:           10,
		FilterRule:         config.FilterRulePendingOrStale,
		StaleAfterMonths:   1,
		ValidateSelections: true,
	}
}

func salesRep(id uint, supervisorID *uint) *models.Employee {
	return &models.Employee{
		ID:           id,
		EntityID:     fmt.Sprintf("Rep %d", id),
		IsSalesRep:   utils.ToPtr(true),
		IsActive:     utils.ToPtr(true),
		SupervisorID: supervisorID,
	}
}

func supervisor(id uint, email *string) *models.Employee {
	return &models.Employee{ID: id, EntityID: "Boss", Email: email, IsActive: utils.ToPtr(true)}
}

func orderLine(id uint, doc, customer, memo, amount string) *repository.SalesOrderLine {
	var name *string
	if customer != "" {
		name = utils.ToPtr(customer)
	}
	return &repository.SalesOrderLine{
		ID:           id,
		TranID:       doc,
		Memo:         memo,
		Amount:       decimal.RequireFromString(amount),
		CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CustomerName: name,
		SalesRepID:   testRepID,
	}
}

func manyLines(n int) []*repository.SalesOrderLine {
	out := make([]*repository.SalesOrderLine, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, orderLine(uint(i), fmt.Sprintf("SO%03d", i), "Acme", "", "10.00"))
	}
	return out
}
