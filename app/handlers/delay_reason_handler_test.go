package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirphl/open-so-review/app/dto"
	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDelayReasonApp(flow *fakeDelayReasonFlow) *fiber.App {
	h := NewDelayReasonHandler(flow)
	app := fiber.New()
	app.Get("/api/v1/sales-orders/:id/delay-reasons", h.ListBySalesOrder)
	app.Get("/api/v1/sales-reps/:id/delay-reasons/export", h.ExportReport)
	app.Get("/api/v1/exports/:uuid", h.DownloadExport)
	return app
}

func TestDelayReasonHandler_ListBySalesOrder(t *testing.T) {
	t.Run("lists reasons", func(t *testing.T) {
		flow := &fakeDelayReasonFlow{list: &dto.ListDelayReasonsResponse{
			SalesOrderID:   9,
			DocumentNumber: "SO-9",
			Items:          []dto.DelayReasonItem{{ID: 1, SalesOrderID: 9, Reason: "late"}},
		}}
		resp, err := newDelayReasonApp(flow).Test(httptest.NewRequest(http.MethodGet, "/api/v1/sales-orders/9/delay-reasons", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out testResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Success)

		var data dto.ListDelayReasonsResponse
		require.NoError(t, json.Unmarshal(out.Data, &data))
		require.Len(t, data.Items, 1)
		assert.Equal(t, "late", data.Items[0].Reason)
	})

	t.Run("unknown order", func(t *testing.T) {
		flow := &fakeDelayReasonFlow{err: businessflow.ErrSalesOrderNotFound}
		resp, err := newDelayReasonApp(flow).Test(httptest.NewRequest(http.MethodGet, "/api/v1/sales-orders/9/delay-reasons", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDelayReasonHandler_Downloads(t *testing.T) {
	file := &businessflow.DownloadFile{
		Name:        "Sales Orders - Sales Rep: 42.csv",
		ContentType: businessflow.CSVContentType,
		Content:     []byte("a,b"),
	}

	tests := []struct {
		name       string
		target     string
		flow       *fakeDelayReasonFlow
		wantStatus int
		wantCode   string
	}{
		{
			name:       "export report",
			target:     "/api/v1/sales-reps/42/delay-reasons/export",
			flow:       &fakeDelayReasonFlow{file: file},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "export for unknown rep",
			target:     "/api/v1/sales-reps/42/delay-reasons/export",
			flow:       &fakeDelayReasonFlow{err: businessflow.ErrSalesRepNotFound},
			wantStatus: fiber.StatusNotFound,
			wantCode:   "SALES_REP_NOT_FOUND",
		},
		{
			name:       "download stored export",
			target:     "/api/v1/exports/6f1c1f3e-7c55-4bb2-9a38-bd1f0bd6b9a1",
			flow:       &fakeDelayReasonFlow{file: file},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "download missing export",
			target:     "/api/v1/exports/6f1c1f3e-7c55-4bb2-9a38-bd1f0bd6b9a1",
			flow:       &fakeDelayReasonFlow{err: businessflow.ErrExportFileNotFound},
			wantStatus: fiber.StatusNotFound,
			wantCode:   "EXPORT_FILE_NOT_FOUND",
		},
		{
			name:       "download with bad id",
			target:     "/api/v1/exports/nope",
			flow:       &fakeDelayReasonFlow{err: businessflow.NewBusinessError("INVALID_FILE_ID", "File id must be a UUID", errors.New("invalid"))},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_FILE_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newDelayReasonApp(tt.flow).Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusOK {
				assert.Equal(t, businessflow.CSVContentType, resp.Header.Get("Content-Type"))
				assert.Equal(t, `attachment; filename="Sales Orders - Sales Rep: 42.csv"`, resp.Header.Get("Content-Disposition"))
				assert.Equal(t, "a,b", readBody(t, resp))
				return
			}

			var out testResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.wantCode, out.Error.Code)
		})
	}
}
