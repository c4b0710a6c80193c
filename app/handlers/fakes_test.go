package handlers

import (
	"context"
	"encoding/json"

	"github.com/amirphl/open-so-review/app/dto"
	businessflow "github.com/amirphl/open-so-review/business_flow"
)

type fakeReviewFlow struct {
	view       *dto.ReviewPageView
	result     *dto.SubmissionResult
	err        error
	lastPage   *dto.ReviewPageRequest
	lastSubmit *dto.ReviewSubmitRequest
}

func (f *fakeReviewFlow) ListPage(ctx context.Context, salesRepID uint, pageIndex int) (*businessflow.OrderPage, error) {
	return nil, f.err
}

func (f *fakeReviewFlow) ReviewPage(ctx context.Context, req *dto.ReviewPageRequest, metadata *businessflow.ClientMetadata) (*dto.ReviewPageView, error) {
	f.lastPage = req
	return f.view, f.err
}

func (f *fakeReviewFlow) Submit(ctx context.Context, req *dto.ReviewSubmitRequest, metadata *businessflow.ClientMetadata) (*dto.SubmissionResult, error) {
	f.lastSubmit = req
	return f.result, f.err
}

type fakeEmployeeFlow struct {
	resp *dto.ReviewActionResponse
	err  error
}

func (f *fakeEmployeeFlow) ReviewAction(ctx context.Context, employeeID uint) (*dto.ReviewActionResponse, error) {
	return f.resp, f.err
}

func (f *fakeEmployeeFlow) ReviewURL(ctx context.Context, salesRepID uint, pageIndex int) (string, error) {
	if f.resp == nil {
		return "", f.err
	}
	return f.resp.ReviewURL, f.err
}

type fakeDelayReasonFlow struct {
	list   *dto.ListDelayReasonsResponse
	file   *businessflow.DownloadFile
	err    error
	lastID string
}

func (f *fakeDelayReasonFlow) ListBySalesOrder(ctx context.Context, salesOrderID uint) (*dto.ListDelayReasonsResponse, error) {
	return f.list, f.err
}

func (f *fakeDelayReasonFlow) ExportSalesRepReport(ctx context.Context, salesRepID uint) (*businessflow.DownloadFile, error) {
	return f.file, f.err
}

func (f *fakeDelayReasonFlow) DownloadExport(ctx context.Context, fileID string) (*businessflow.DownloadFile, error) {
	f.lastID = fileID
	return f.file, f.err
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}
