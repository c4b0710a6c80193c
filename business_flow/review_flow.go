package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/amirphl/open-so-review/app/dto"
	"github.com/amirphl/open-so-review/app/services"
	"github.com/amirphl/open-so-review/config"
	"github.com/amirphl/open-so-review/models"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
	"github.com/redis/go-redis/v9"
)

const ReviewFormTitle = "Email Open Sales Orders to Sales Supervisors"

// User facing messages of the review workflow
const (
	MsgNoneSelected          = "No Sales Orders selected."
	MsgNoSalesOrdersFound    = "No Sales Orders found."
	MsgSalesOrdersLoadFailed = "Sales orders could not be loaded."
	MsgCSVCreated            = "CSV File has been created."
	MsgCSVFailed             = "CSV File creation failed."
	MsgSpreadsheetCreated    = "Excel file has been created."
	MsgSpreadsheetFailed     = "Excel file creation failed."
	MsgEmailSent             = "Email sent."
	MsgEmailFailed           = "Email could not be sent."

	EmailSubject = "Open Sales Orders of this month"
	EmailBody    = "Dear employee, \n\n Details of the Open Sales Orders of this month are listed in the file attached. Kindly verify.\n\n Thank you."
)

// Submission step names
const (
	StepLoadSalesOrders    = "load_sales_orders"
	StepRecordDelayReasons = "record_delay_reasons"
	StepCreateCSV          = "create_csv"
	StepCreateSpreadsheet  = "create_spreadsheet"
	StepResolveRecipient   = "resolve_recipient"
	StepSendEmail          = "send_email"
)

// OrderPage is one non-empty page of a sales rep's open sales orders
type OrderPage struct {
	Rows       []OrderLine
	PageIndex  int
	PageSize   int
	TotalPages int
	TotalCount int64
}

// ReviewFlow handles the open sales order review: listing, rendering and submission
type ReviewFlow interface {
	ListPage(ctx context.Context, salesRepID uint, pageIndex int) (*OrderPage, error)
	ReviewPage(ctx context.Context, req *dto.ReviewPageRequest, metadata *ClientMetadata) (*dto.ReviewPageView, error)
	Submit(ctx context.Context, req *dto.ReviewSubmitRequest, metadata *ClientMetadata) (*dto.SubmissionResult, error)
}

// ReviewFlowImpl implements ReviewFlow
type ReviewFlowImpl struct {
	employeeRepo    repository.EmployeeRepository
	salesOrderRepo  repository.SalesOrderRepository
	delayReasonRepo repository.DelayReasonRepository
	sentEmailRepo   repository.SentEmailRepository
	fileStore       services.FileStore
	notifier        services.NotificationService
	pageTokens      services.PageTokenService
	locker          services.SubmissionLocker
	rc              *redis.Client
	reviewCfg       config.ReviewConfig
	emailCfg        config.EmailConfig
	adminCfg        config.AdminConfig
	cacheCfg        config.CacheConfig
	storageCfg      config.StorageConfig
	now             func() time.Time
}

// NewReviewFlow creates a new review flow. rc and locker may be nil.
func NewReviewFlow(
	employeeRepo repository.EmployeeRepository,
	salesOrderRepo repository.SalesOrderRepository,
	delayReasonRepo repository.DelayReasonRepository,
	sentEmailRepo repository.SentEmailRepository,
	fileStore services.FileStore,
	notifier services.NotificationService,
	pageTokens services.PageTokenService,
	locker services.SubmissionLocker,
	rc *redis.Client,
	reviewCfg config.ReviewConfig,
	emailCfg config.EmailConfig,
	adminCfg config.AdminConfig,
	cacheCfg config.CacheConfig,
	storageCfg config.StorageConfig,
) ReviewFlow {
	return &ReviewFlowImpl{
		employeeRepo:    employeeRepo,
		salesOrderRepo:  salesOrderRepo,
		delayReasonRepo: delayReasonRepo,
		sentEmailRepo:   sentEmailRepo,
		fileStore:       fileStore,
		notifier:        notifier,
		pageTokens:      pageTokens,
		locker:          locker,
		rc:              rc,
		reviewCfg:       reviewCfg,
		emailCfg:        emailCfg,
		adminCfg:        adminCfg,
		cacheCfg:        cacheCfg,
		storageCfg:      storageCfg,
		now:             utils.UTCNow,
	}
}

func (f *ReviewFlowImpl) pageSize() int {
	if f.reviewCfg.PageSize > 0 {
		return f.reviewCfg.PageSize
	}
	return utils.DefaultReviewPageSize
}

// orderFilter builds the search for the configured filter rule
func (f *ReviewFlowImpl) orderFilter(salesRepID uint) models.SalesOrderFilter {
	filter := models.SalesOrderFilter{SalesRepID: &salesRepID}
	now := f.now()

	switch f.reviewCfg.FilterRule {
	case config.FilterRuleThisMonth:
		filter.BillingStatus = utils.ToPtr(true)
		filter.CreatedAfter = utils.ToPtr(utils.StartOfMonthUTC(now))
		filter.StatusNotIn = models.ClosedSalesOrderStatuses
	default:
		months := f.reviewCfg.StaleAfterMonths
		if months <= 0 {
			months = 1
		}
		filter.PendingOrStaleBefore = utils.ToPtr(utils.MonthsAgoUTC(now, months))
	}
	return filter
}

// ListPage returns one page of the rep's open sales orders. A pageIndex outside
// [0, totalPages) is reset to 0. An empty search yields ErrNoOpenSalesOrders.
func (f *ReviewFlowImpl) ListPage(ctx context.Context, salesRepID uint, pageIndex int) (*OrderPage, error) {
	if salesRepID == 0 {
		return nil, ErrSalesRepIDRequired
	}

	pageSize := f.pageSize()
	filter := f.orderFilter(salesRepID)

	total, err := f.salesOrderRepo.Count(ctx, filter)
	if err != nil {
		return nil, queryError("Failed to count open sales orders", err)
	}
	if total == 0 {
		return nil, ErrNoOpenSalesOrders
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pageIndex < 0 || pageIndex >= totalPages {
		pageIndex = 0
	}

	rows, err := f.salesOrderRepo.Lines(ctx, filter, pageSize, pageIndex*pageSize)
	if err != nil {
		return nil, queryError("Failed to fetch open sales orders", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoOpenSalesOrders
	}

	lines := make([]OrderLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, toOrderLine(r))
	}

	return &OrderPage{
		Rows:       lines,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// ReviewPage composes the review form. Query failures and empty searches are not
// errors here; they come back as an Empty view with a message.
func (f *ReviewFlowImpl) ReviewPage(ctx context.Context, req *dto.ReviewPageRequest, metadata *ClientMetadata) (*dto.ReviewPageView, error) {
	if req == nil || req.SalesRepID == 0 {
		return nil, ErrSalesRepIDRequired
	}

	name, err := f.salesRepName(ctx, req.SalesRepID)
	if err != nil {
		return nil, err
	}

	view := &dto.ReviewPageView{
		Title:        ReviewFormTitle,
		SalesRepID:   req.SalesRepID,
		SalesRepName: name,
		PageSize:     f.pageSize(),
		Rows:         []dto.OrderLineItem{},
		PageOptions:  []dto.PageOption{},
	}

	page, err := f.ListPage(ctx, req.SalesRepID, req.PageIndex)
	switch {
	case errors.Is(err, ErrNoOpenSalesOrders):
		view.Empty = true
		view.Message = MsgNoSalesOrdersFound
		reviewPagesServed.WithLabelValues("empty").Inc()
		return view, nil
	case err != nil:
		log.Printf("review page for sales rep %d (%s): %v", req.SalesRepID, metadata, err)
		view.Empty = true
		view.Message = "Sales orders could not be loaded: " + err.Error()
		reviewPagesServed.WithLabelValues("error").Inc()
		return view, nil
	}

	view.PageIndex = page.PageIndex
	view.PageSize = page.PageSize
	view.TotalPages = page.TotalPages
	view.TotalCount = page.TotalCount

	ids := make([]uint, 0, len(page.Rows))
	for _, row := range page.Rows {
		ids = append(ids, row.ID)
		view.Rows = append(view.Rows, dto.OrderLineItem{
			ID:             row.ID,
			DocumentNumber: row.DocumentNumber,
			CustomerName:   orNotAvailable(row.CustomerName),
			Memo:           orNotAvailable(row.Memo),
			Amount:         formatAmount(row.Amount),
			CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for j := 0; j < page.TotalPages; j++ {
		view.PageOptions = append(view.PageOptions, dto.PageOption{
			Value:    j,
			Label:    strconv.Itoa(j + 1),
			Selected: j == page.PageIndex,
		})
	}

	if f.pageTokens != nil {
		token, err := f.pageTokens.IssuePageToken(req.SalesRepID, page.PageIndex, ids)
		if err != nil {
			log.Printf("issue page token for sales rep %d: %v", req.SalesRepID, err)
		} else {
			view.PageToken = token
		}
	}

	reviewPagesServed.WithLabelValues("rows").Inc()
	return view, nil
}

// Submit records the delay reasons of the selected orders, exports them and emails
// both exports to the rep's supervisor. Steps fail independently; their outcomes are
// reported on the result. Resubmitting creates new records, files and email.
func (f *ReviewFlowImpl) Submit(ctx context.Context, req *dto.ReviewSubmitRequest, metadata *ClientMetadata) (*dto.SubmissionResult, error) {
	if req == nil || req.SalesRepID == 0 {
		return nil, ErrSalesRepIDRequired
	}
	repID := req.SalesRepID

	result := &dto.SubmissionResult{
		SalesRepID: repID,
		Messages:   []string{},
		Steps:      []dto.SubmissionStep{},
	}

	selections := dedupeSelections(req.Selections)
	if len(selections) == 0 {
		result.NoneSelected = true
		result.Messages = append(result.Messages, MsgNoneSelected)
		reviewSubmissions.WithLabelValues("none_selected").Inc()
		return result, nil
	}

	if f.reviewCfg.ValidateSelections {
		if err := f.validateSelections(repID, req.PageToken, selections); err != nil {
			reviewSubmissions.WithLabelValues("rejected").Inc()
			return nil, err
		}
	}

	if f.reviewCfg.LockEnabled && f.locker != nil {
		release, err := f.locker.Obtain(ctx, strconv.FormatUint(uint64(repID), 10))
		if errors.Is(err, services.ErrLockNotObtained) {
			reviewSubmissions.WithLabelValues("rejected").Inc()
			return nil, ErrSubmissionInProgress
		}
		if err != nil {
			log.Printf("submission lock for sales rep %d unavailable, continuing: %v", repID, err)
		}
		defer release()
	}

	lines, err := f.loadSelectedLines(ctx, repID, selections, result)
	if err != nil {
		log.Printf("submit for sales rep %d (%s): %v", repID, metadata, err)
		failStep(result, StepLoadSalesOrders, CodeQueryFailed, MsgSalesOrdersLoadFailed)
		reviewSubmissions.WithLabelValues("partial").Inc()
		return result, nil
	}
	if len(lines) == 0 {
		result.NoneSelected = true
		result.Messages = append(result.Messages, MsgNoneSelected)
		reviewSubmissions.WithLabelValues("none_selected").Inc()
		return result, nil
	}

	f.recordDelayReasons(ctx, repID, lines, result)

	var attachmentIDs []string
	csvID, err := f.storeExport(ctx, repID, CSVFileName(repID), models.ExportFileTypeCSV, CSVContentType, BuildDelimitedText(lines))
	if err != nil {
		log.Printf("submit for sales rep %d: create csv: %v", repID, err)
		failStep(result, StepCreateCSV, CodeExportFailed, MsgCSVFailed)
	} else {
		result.CSVFileID = csvID
		attachmentIDs = append(attachmentIDs, csvID)
		okStep(result, StepCreateCSV, MsgCSVCreated)
	}

	xlsID, err := f.storeExport(ctx, repID, SpreadsheetFileName(repID), models.ExportFileTypeExcel, SpreadsheetContentType, BuildSpreadsheetMarkup(lines))
	if err != nil {
		log.Printf("submit for sales rep %d: create spreadsheet: %v", repID, err)
		failStep(result, StepCreateSpreadsheet, CodeExportFailed, MsgSpreadsheetFailed)
	} else {
		result.SpreadsheetFileID = xlsID
		attachmentIDs = append(attachmentIDs, xlsID)
		okStep(result, StepCreateSpreadsheet, MsgSpreadsheetCreated)
	}

	recipient, note := ResolveRecipient(ctx, f.employeeRepo, f.adminCfg, repID)
	result.Recipient = &dto.RecipientInfo{
		EmployeeID: recipient.EmployeeID,
		Email:      recipient.Email,
		Name:       recipient.Name,
		Fallback:   recipient.Fallback,
	}
	if note != "" {
		okStep(result, StepResolveRecipient, note)
	} else {
		result.Steps = append(result.Steps, dto.SubmissionStep{
			Step:    StepResolveRecipient,
			OK:      true,
			Message: "Email recipient is " + recipient.Name + ".",
		})
	}

	f.sendNotification(ctx, repID, recipient, attachmentIDs, result)

	outcome := "completed"
	for _, s := range result.Steps {
		if !s.OK {
			outcome = "partial"
			break
		}
	}
	reviewSubmissions.WithLabelValues(outcome).Inc()

	return result, nil
}

// validateSelections checks that every selected order was served on the page the token was issued for
func (f *ReviewFlowImpl) validateSelections(repID uint, pageToken string, selections []dto.ReviewSelection) error {
	if f.pageTokens == nil || pageToken == "" {
		return ErrInvalidPageToken
	}
	claims, err := f.pageTokens.ValidatePageToken(pageToken)
	if err != nil {
		return NewBusinessError("INVALID_PAGE_TOKEN", "Page token could not be verified", fmt.Errorf("%w: %w", ErrInvalidPageToken, err))
	}
	if claims.SalesRepID != repID {
		return ErrInvalidPageToken
	}
	for _, s := range selections {
		if !claims.Served(s.SalesOrderID) {
			return NewBusinessErrorf("SELECTION_NOT_SERVED", "Sales order %d was not on the submitted page", ErrSelectionNotServed, s.SalesOrderID)
		}
	}
	return nil
}

// loadSelectedLines re-reads the selected orders of the rep, in selection order
func (f *ReviewFlowImpl) loadSelectedLines(ctx context.Context, repID uint, selections []dto.ReviewSelection, result *dto.SubmissionResult) ([]ExportLine, error) {
	ids := make([]uint, 0, len(selections))
	for _, s := range selections {
		ids = append(ids, s.SalesOrderID)
	}

	rows, err := f.salesOrderRepo.Lines(ctx, models.SalesOrderFilter{IDs: ids, SalesRepID: &repID}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	byID := make(map[uint]*repository.SalesOrderLine, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	lines := make([]ExportLine, 0, len(selections))
	for _, s := range selections {
		row, ok := byID[s.SalesOrderID]
		if !ok {
			result.Messages = append(result.Messages, fmt.Sprintf("Sales order %d is no longer available.", s.SalesOrderID))
			continue
		}
		lines = append(lines, ExportLine{OrderLine: toOrderLine(row), Reason: s.Reason})
	}
	return lines, nil
}

// recordDelayReasons saves one delay reason per line; failures are counted per record
func (f *ReviewFlowImpl) recordDelayReasons(ctx context.Context, repID uint, lines []ExportLine, result *dto.SubmissionResult) {
	recordedAt := f.now()
	var failed []string

	for _, l := range lines {
		reason := &models.DelayReason{
			SalesOrderID: l.ID,
			SalesRepID:   repID,
			Reason:       l.Reason,
			RecordedAt:   recordedAt,
		}
		if err := f.delayReasonRepo.Save(ctx, reason); err != nil {
			log.Printf("record delay reason for %s: %v", l.DocumentNumber, err)
			failed = append(failed, l.DocumentNumber)
			continue
		}
		result.RecordedCount++
	}

	summary := fmt.Sprintf("Delay reason recorded for %d of %d sales orders.", result.RecordedCount, len(lines))
	if len(failed) == 0 {
		okStep(result, StepRecordDelayReasons, summary)
		return
	}

	failStep(result, StepRecordDelayReasons, CodeRecordFailed, summary)
	for _, doc := range failed {
		result.Messages = append(result.Messages, fmt.Sprintf("Failed to record delay reason for %s.", doc))
	}
}

func (f *ReviewFlowImpl) storeExport(ctx context.Context, repID uint, name, fileType, contentType string, content []byte) (string, error) {
	if f.fileStore == nil {
		return "", ErrExportFailed
	}
	id, err := f.fileStore.CreateFile(ctx, services.CreateFileRequest{
		Name:        name,
		FileType:    fileType,
		ContentType: contentType,
		Folder:      f.storageCfg.Folder,
		SalesRepID:  &repID,
		Content:     content,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return id.String(), nil
}

// sendNotification loads the stored exports back and mails them, then writes the audit row
func (f *ReviewFlowImpl) sendNotification(ctx context.Context, repID uint, recipient Recipient, attachmentIDs []string, result *dto.SubmissionResult) {
	attachments := make([]services.EmailAttachment, 0, len(attachmentIDs))
	for _, id := range attachmentIDs {
		fileID, err := utils.ParseUUID(id)
		if err != nil {
			continue
		}
		file, err := f.fileStore.LoadFile(ctx, fileID)
		if err != nil {
			log.Printf("load export %s for email: %v", id, err)
			continue
		}
		attachments = append(attachments, services.EmailAttachment{
			Name:        file.Name,
			ContentType: file.ContentType,
			Content:     file.Content,
		})
	}

	var sendErr error
	if f.notifier == nil {
		sendErr = ErrNotificationFailed
	} else {
		sendErr = f.notifier.SendEmail(ctx, services.EmailMessage{
			FromEmail:   f.emailCfg.FromEmail,
			FromName:    f.emailCfg.FromName,
			To:          recipient.Email,
			ToName:      recipient.Name,
			Subject:     EmailSubject,
			Body:        EmailBody,
			Attachments: attachments,
		})
	}

	audit := &models.SentEmail{
		SalesRepID:     repID,
		RecipientEmail: recipient.Email,
		Fallback:       recipient.Fallback,
		Subject:        EmailSubject,
		AttachmentIDs:  attachmentIDs,
		Status:         models.SentEmailStatusSent,
	}
	if recipient.EmployeeID != 0 {
		audit.RecipientEmployeeID = utils.ToPtr(recipient.EmployeeID)
	}

	if sendErr != nil {
		log.Printf("send review email for sales rep %d to %s: %v", repID, recipient.Email, sendErr)
		failStep(result, StepSendEmail, CodeNotificationFailed, MsgEmailFailed)
		audit.Status = models.SentEmailStatusFailed
		audit.Error = utils.ToPtr(sendErr.Error())
	} else {
		result.EmailSent = true
		okStep(result, StepSendEmail, MsgEmailSent)
		kind := "supervisor"
		if recipient.Fallback {
			kind = "fallback"
		}
		reviewEmails.WithLabelValues(kind).Inc()
	}

	if f.sentEmailRepo != nil {
		if err := f.sentEmailRepo.Save(ctx, audit); err != nil {
			log.Printf("save sent email audit for sales rep %d: %v", repID, err)
		}
	}
}

// salesRepName returns the rep's display name, cached in redis when available
func (f *ReviewFlowImpl) salesRepName(ctx context.Context, repID uint) (string, error) {
	key := fmt.Sprintf("%ssales_rep_name:%d", f.cacheCfg.RedisPrefix, repID)
	if f.rc != nil {
		if name, err := f.rc.Get(ctx, key).Result(); err == nil {
			return name, nil
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("read cached sales rep name %d: %v", repID, err)
		}
	}

	rep, err := f.employeeRepo.ByID(ctx, repID)
	if err != nil {
		return "", recordError("Failed to load sales rep", err)
	}
	if rep == nil {
		return "", ErrSalesRepNotFound
	}

	name := rep.DisplayName()
	if f.rc != nil {
		ttl := f.cacheCfg.DefaultTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		if err := f.rc.Set(ctx, key, name, ttl).Err(); err != nil {
			log.Printf("cache sales rep name %d: %v", repID, err)
		}
	}
	return name, nil
}

func okStep(result *dto.SubmissionResult, step, message string) {
	result.Steps = append(result.Steps, dto.SubmissionStep{Step: step, OK: true, Message: message})
	result.Messages = append(result.Messages, message)
}

func failStep(result *dto.SubmissionResult, step, code, message string) {
	result.Steps = append(result.Steps, dto.SubmissionStep{Step: step, OK: false, Code: code, Message: message})
	result.Messages = append(result.Messages, message)
	reviewStepFailures.WithLabelValues(step).Inc()
}

// dedupeSelections keeps the first selection of each order
func dedupeSelections(in []dto.ReviewSelection) []dto.ReviewSelection {
	seen := make(map[uint]struct{}, len(in))
	out := make([]dto.ReviewSelection, 0, len(in))
	for _, s := range in {
		if s.SalesOrderID == 0 {
			continue
		}
		if _, ok := seen[s.SalesOrderID]; ok {
			continue
		}
		seen[s.SalesOrderID] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toOrderLine(r *repository.SalesOrderLine) OrderLine {
	return OrderLine{
		ID:             r.ID,
		DocumentNumber: r.TranID,
		CustomerName:   utils.DerefString(r.CustomerName, ""),
		Memo:           r.Memo,
		Amount:         r.Amount,
		CreatedAt:      r.CreatedAt,
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return utils.NotAvailable
	}
	return s
}
