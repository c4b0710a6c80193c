package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/amirphl/open-so-review/app/dto"
	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewApp(flow *fakeReviewFlow) *fiber.App {
	h := NewReviewHandler(flow)
	app := fiber.New()
	app.Get(businessflow.ReviewPagePath, h.ShowForm)
	app.Post(businessflow.ReviewPagePath, h.SubmitForm)
	app.Get("/api/v1/review/pages", h.GetPage)
	app.Post("/api/v1/review/submissions", h.Submit)
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestParseReviewForm(t *testing.T) {
	form := url.Values{}
	form.Set("salesRepId", "42")
	form.Set("pageToken", "tok")
	form.Set("select_30", "on")
	form.Set("reason_30", "  awaiting stock ")
	form.Set("select_7", "T")
	form.Set("select_9", "F")
	form.Set("reason_9", "ignored")
	form.Set("select_x", "on")

	req, ok := parseReviewForm(form)
	require.True(t, ok)
	assert.Equal(t, uint(42), req.SalesRepID)
	assert.Equal(t, "tok", req.PageToken)
	assert.Equal(t, []dto.ReviewSelection{
		{SalesOrderID: 7, Reason: ""},
		{SalesOrderID: 30, Reason: "awaiting stock"},
	}, req.Selections)

	_, ok = parseReviewForm(url.Values{"select_1": {"on"}})
	assert.False(t, ok)
}

func TestReviewHandler_ShowForm(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		flow       *fakeReviewFlow
		wantStatus int
		wantBody   []string
	}{
		{
			name:   "renders rows and page selector",
			target: businessflow.ReviewPagePath + "?salesRepId=42&pageIndex=1",
			flow: &fakeReviewFlow{view: &dto.ReviewPageView{
				Title:        businessflow.ReviewFormTitle,
				SalesRepID:   42,
				SalesRepName: "Jane <Rep>",
				PageIndex:    1,
				Rows:         []dto.OrderLineItem{{ID: 11, DocumentNumber: "SO-11", CustomerName: "Acme", Memo: "rush", Amount: "10.50"}},
				PageOptions:  []dto.PageOption{{Value: 0, Label: "1 - 10"}, {Value: 1, Label: "11 - 11", Selected: true}},
				PageToken:    "signed",
			}},
			wantStatus: fiber.StatusOK,
			wantBody: []string{
				"Jane &lt;Rep&gt;",
				`name="reason_11"`,
				`name="select_11"`,
				`value="signed"`,
				"SO-11",
				"Send Email",
				"selected>11 - 11",
			},
		},
		{
			name:       "empty page shows the message",
			target:     businessflow.ReviewPagePath + "?salesRepId=42",
			flow:       &fakeReviewFlow{view: &dto.ReviewPageView{Title: businessflow.ReviewFormTitle, SalesRepID: 42, Empty: true, Message: businessflow.MsgNoSalesOrdersFound}},
			wantStatus: fiber.StatusOK,
			wantBody:   []string{businessflow.MsgNoSalesOrdersFound},
		},
		{
			name:       "missing sales rep id",
			target:     businessflow.ReviewPagePath,
			flow:       &fakeReviewFlow{},
			wantStatus: fiber.StatusBadRequest,
			wantBody:   []string{"salesRepId is required"},
		},
		{
			name:       "unknown sales rep",
			target:     businessflow.ReviewPagePath + "?salesRepId=99",
			flow:       &fakeReviewFlow{err: businessflow.ErrSalesRepNotFound},
			wantStatus: fiber.StatusNotFound,
			wantBody:   []string{"Sales rep not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newReviewApp(tt.flow)
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := readBody(t, resp)
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestReviewHandler_ShowFormPassesPageIndex(t *testing.T) {
	flow := &fakeReviewFlow{view: &dto.ReviewPageView{SalesRepID: 42, Empty: true}}
	app := newReviewApp(flow)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, businessflow.ReviewPagePath+"?salesRepId=42&pageIndex=3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, flow.lastPage)
	assert.Equal(t, uint(42), flow.lastPage.SalesRepID)
	assert.Equal(t, 3, flow.lastPage.PageIndex)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestReviewHandler_SubmitForm(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "step outcomes", wantStatus: fiber.StatusOK, wantBody: businessflow.MsgCSVCreated + "\n" + businessflow.MsgEmailSent},
		{name: "expired token", err: businessflow.ErrInvalidPageToken, wantStatus: fiber.StatusBadRequest, wantBody: "expired"},
		{name: "not served", err: businessflow.ErrSelectionNotServed, wantStatus: fiber.StatusBadRequest, wantBody: "do not match"},
		{name: "in progress", err: businessflow.ErrSubmissionInProgress, wantStatus: fiber.StatusConflict, wantBody: "in progress"},
		{name: "unexpected", err: errors.New("boom"), wantStatus: fiber.StatusInternalServerError, wantBody: "Submission failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := &fakeReviewFlow{
				result: &dto.SubmissionResult{Messages: []string{businessflow.MsgCSVCreated, businessflow.MsgEmailSent}},
				err:    tt.err,
			}
			app := newReviewApp(flow)

			body := "salesRepId=42&pageToken=tok&select_5=on&reason_5=late"
			req := httptest.NewRequest(http.MethodPost, businessflow.ReviewPagePath, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), tt.wantBody)

			require.NotNil(t, flow.lastSubmit)
			assert.Equal(t, []dto.ReviewSelection{{SalesOrderID: 5, Reason: "late"}}, flow.lastSubmit.Selections)
		})
	}
}

func TestReviewHandler_SubmitFormRequiresSalesRep(t *testing.T) {
	flow := &fakeReviewFlow{}
	app := newReviewApp(flow)

	req := httptest.NewRequest(http.MethodPost, businessflow.ReviewPagePath, strings.NewReader("select_5=on"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, flow.lastSubmit)
}

func TestReviewHandler_GetPage(t *testing.T) {
	t.Run("validation error", func(t *testing.T) {
		app := newReviewApp(&fakeReviewFlow{})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/review/pages", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var out testResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.False(t, out.Success)
		assert.Equal(t, "VALIDATION_ERROR", out.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		flow := &fakeReviewFlow{view: &dto.ReviewPageView{SalesRepID: 42, TotalCount: 3}}
		app := newReviewApp(flow)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/review/pages?sales_rep_id=42&page_index=2", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, flow.lastPage.PageIndex)

		var out testResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Success)
	})
}

func TestReviewHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		result     *dto.SubmissionResult
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "none selected",
			body:       `{"sales_rep_id":42,"page_token":"tok","selections":[]}`,
			result:     &dto.SubmissionResult{SalesRepID: 42, NoneSelected: true, Messages: []string{businessflow.MsgNoneSelected}},
			wantStatus: fiber.StatusOK,
			wantMsg:    businessflow.MsgNoneSelected,
		},
		{
			name:       "submitted",
			body:       `{"sales_rep_id":42,"page_token":"tok","selections":[{"sales_order_id":7,"reason":"late"}]}`,
			result:     &dto.SubmissionResult{SalesRepID: 42, RecordedCount: 1},
			wantStatus: fiber.StatusOK,
			wantMsg:    "Review submitted",
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "missing sales rep",
			body:       `{"page_token":"tok"}`,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "selection without id",
			body:       `{"sales_rep_id":42,"selections":[{"reason":"x"}]}`,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "lock held",
			body:       `{"sales_rep_id":42,"page_token":"tok","selections":[{"sales_order_id":7}]}`,
			err:        businessflow.ErrSubmissionInProgress,
			wantStatus: fiber.StatusConflict,
			wantCode:   "SUBMISSION_IN_PROGRESS",
		},
		{
			name:       "bad token",
			body:       `{"sales_rep_id":42,"page_token":"bad","selections":[{"sales_order_id":7}]}`,
			err:        businessflow.ErrInvalidPageToken,
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_PAGE_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newReviewApp(&fakeReviewFlow{result: tt.result, err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/review/submissions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var out testResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, out.Error.Code)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, out.Message)
			}
		})
	}
}
