package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"emi-genie/internal/api/handler"
	"emi-genie/internal/domain/registry"
	"emi-genie/internal/domain/report"
)

type MockReportService struct {
	mock.Mock
}

func (_m *MockReportService) StatusCounts(ctx context.Context) (map[registry.LoanStatus]int64, error) {
	ret := _m.Called(ctx)
	var r0 map[registry.LoanStatus]int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[registry.LoanStatus]int64)
	}
	return r0, ret.Error(1)
}

func (_m *MockReportService) Conversion(ctx context.Context) (*report.ConversionReport, error) {
	ret := _m.Called(ctx)
	var r0 *report.ConversionReport
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*report.ConversionReport)
	}
	return r0, ret.Error(1)
}

func newReportRouter(svc report.Service) *chi.Mux {
	h := handler.NewReportHandler(svc, testLogger)
	r := chi.NewRouter()
	r.Get("/reports/status-counts", h.StatusCounts)
	r.Get("/reports/conversion", h.Conversion)
	return r
}

func TestStatusCountsHandler(t *testing.T) {
	svc := new(MockReportService)
	svc.On("StatusCounts", mock.Anything).Return(map[registry.LoanStatus]int64{
		registry.StatusDue:  7,
		registry.StatusPaid: 2,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/status-counts", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp["due"])
	assert.Equal(t, int64(2), resp["paid"])
}

func TestConversionHandler(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Conversion", mock.Anything).Return(&report.ConversionReport{
		CalledLoans:    4,
		ConvertedLoans: 2,
		ConversionRate: 50,
		AvgTimeToPay:   45 * time.Minute,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/conversion", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp report.ConversionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.CalledLoans)
	assert.InDelta(t, 50.0, resp.ConversionRate, 0.001)
}

func TestConversionHandlerServiceError(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Conversion", mock.Anything).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/reports/conversion", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
