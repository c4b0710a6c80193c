package businessflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/open-so-review/app/dto"
	"github.com/amirphl/open-so-review/app/services"
	"github.com/amirphl/open-so-review/models"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
	"github.com/xuri/excelize/v2"
)

// maxReportRows bounds the delay reason workbook of a single rep
const maxReportRows = 10000

// DownloadFile is a generated or stored file ready to be sent to the client
type DownloadFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// DelayReasonFlow exposes recorded delay reasons and the stored export artifacts
type DelayReasonFlow interface {
	ListBySalesOrder(ctx context.Context, salesOrderID uint) (*dto.ListDelayReasonsResponse, error)
	ExportSalesRepReport(ctx context.Context, salesRepID uint) (*DownloadFile, error)
	DownloadExport(ctx context.Context, fileID string) (*DownloadFile, error)
}

// DelayReasonFlowImpl implements DelayReasonFlow
type DelayReasonFlowImpl struct {
	employeeRepo    repository.EmployeeRepository
	salesOrderRepo  repository.SalesOrderRepository
	delayReasonRepo repository.DelayReasonRepository
	fileStore       services.FileStore
}

func NewDelayReasonFlow(
	employeeRepo repository.EmployeeRepository,
	salesOrderRepo repository.SalesOrderRepository,
	delayReasonRepo repository.DelayReasonRepository,
	fileStore services.FileStore,
) DelayReasonFlow {
	return &DelayReasonFlowImpl{
		employeeRepo:    employeeRepo,
		salesOrderRepo:  salesOrderRepo,
		delayReasonRepo: delayReasonRepo,
		fileStore:       fileStore,
	}
}

func (f *DelayReasonFlowImpl) ListBySalesOrder(ctx context.Context, salesOrderID uint) (*dto.ListDelayReasonsResponse, error) {
	order, err := f.salesOrderRepo.ByID(ctx, salesOrderID)
	if err != nil {
		return nil, recordError("Failed to load sales order", err)
	}
	if order == nil {
		return nil, ErrSalesOrderNotFound
	}

	rows, err := f.delayReasonRepo.ListWithOrder(ctx, models.DelayReasonFilter{SalesOrderID: &salesOrderID}, 0, 0)
	if err != nil {
		return nil, queryError("Failed to list delay reasons", err)
	}

	items := make([]dto.DelayReasonItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toDelayReasonItem(r))
	}

	return &dto.ListDelayReasonsResponse{
		SalesOrderID:   order.ID,
		DocumentNumber: order.TranID,
		Items:          items,
	}, nil
}

// ExportSalesRepReport builds an XLSX workbook of every delay reason recorded for the rep
func (f *DelayReasonFlowImpl) ExportSalesRepReport(ctx context.Context, salesRepID uint) (*DownloadFile, error) {
	if salesRepID == 0 {
		return nil, ErrSalesRepIDRequired
	}
	rep, err := f.employeeRepo.ByID(ctx, salesRepID)
	if err != nil {
		return nil, recordError("Failed to load sales rep", err)
	}
	if rep == nil {
		return nil, ErrSalesRepNotFound
	}

	rows, err := f.delayReasonRepo.ListWithOrder(ctx, models.DelayReasonFilter{SalesRepID: &salesRepID}, maxReportRows, 0)
	if err != nil {
		return nil, queryError("Failed to list delay reasons", err)
	}

	content, err := BuildDelayReasonWorkbook(rows)
	if err != nil {
		return nil, NewBusinessError(CodeExportFailed, "Failed to write delay reason report", fmt.Errorf("%w: %w", ErrExportFailed, err))
	}

	return &DownloadFile{
		Name:        fmt.Sprintf("Delay Reasons - Sales Rep: %d.xlsx", salesRepID),
		ContentType: XLSXContentType,
		Content:     content,
	}, nil
}

// DownloadExport returns a stored export artifact by its UUID
func (f *DelayReasonFlowImpl) DownloadExport(ctx context.Context, fileID string) (*DownloadFile, error) {
	id, err := utils.ParseUUID(fileID)
	if err != nil {
		return nil, NewBusinessError("INVALID_FILE_ID", "File id must be a UUID", err)
	}

	file, err := f.fileStore.LoadFile(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return nil, ErrExportFileNotFound
		}
		return nil, NewBusinessError(CodeExportFailed, "Failed to load export file", fmt.Errorf("%w: %w", ErrExportFailed, err))
	}

	return &DownloadFile{
		Name:        file.Name,
		ContentType: file.ContentType,
		Content:     file.Content,
	}, nil
}

var delayReasonReportHeader = []string{"Recorded At", "Document Number", "Customer", "Sales Order Amount", "Reason for Delay"}

// BuildDelayReasonWorkbook renders delay reasons as a single sheet XLSX workbook
func BuildDelayReasonWorkbook(rows []*repository.DelayReasonWithOrder) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Delay Reasons"
	if err := xl.SetSheetName(xl.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	header := delayReasonReportHeader
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	style, err := xl.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"AAAAAA"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	if err := xl.SetCellStyle(sheet, "A1", "E1", style); err != nil {
		return nil, err
	}

	for i, r := range rows {
		amount, _ := r.Amount.Float64()
		record := []any{
			utils.FormatRecordedAt(r.RecordedAt),
			r.TranID,
			utils.DerefString(r.CustomerName, ""),
			amount,
			r.Reason,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toDelayReasonItem(r *repository.DelayReasonWithOrder) dto.DelayReasonItem {
	return dto.DelayReasonItem{
		ID:             r.ID,
		UUID:           r.UUID,
		SalesOrderID:   r.SalesOrderID,
		SalesRepID:     r.SalesRepID,
		DocumentNumber: r.TranID,
		CustomerName:   utils.DerefString(r.CustomerName, utils.NotAvailable),
		Amount:         formatAmount(r.Amount),
		Reason:         r.Reason,
		RecordedAt:     utils.FormatRecordedAt(r.RecordedAt),
	}
}
