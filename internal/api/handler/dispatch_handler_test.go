package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"emi-genie/internal/api/handler"
	"emi-genie/internal/domain/dispatch"
	"emi-genie/internal/message"
	"emi-genie/internal/pkg/apperrors"
)

type MockDispatchService struct {
	mock.Mock
}

func (_m *MockDispatchService) DispatchReminder(ctx context.Context, loanID int64, key message.Key) (*dispatch.Result, error) {
	ret := _m.Called(ctx, loanID, key)
	var r0 *dispatch.Result
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*dispatch.Result)
	}
	return r0, ret.Error(1)
}

func (_m *MockDispatchService) DispatchPaymentLink(ctx context.Context, loanID int64) (*dispatch.Result, error) {
	ret := _m.Called(ctx, loanID)
	var r0 *dispatch.Result
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*dispatch.Result)
	}
	return r0, ret.Error(1)
}

func (_m *MockDispatchService) DispatchBulk(ctx context.Context, loanIDs []int64, key message.Key) (*dispatch.BulkReport, error) {
	ret := _m.Called(ctx, loanIDs, key)
	var r0 *dispatch.BulkReport
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*dispatch.BulkReport)
	}
	return r0, ret.Error(1)
}

func (_m *MockDispatchService) DispatchOverdue(ctx context.Context) (*dispatch.BulkReport, error) {
	ret := _m.Called(ctx)
	var r0 *dispatch.BulkReport
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*dispatch.BulkReport)
	}
	return r0, ret.Error(1)
}

func (_m *MockDispatchService) DispatchPreDue(ctx context.Context) (*dispatch.BulkReport, error) {
	ret := _m.Called(ctx)
	var r0 *dispatch.BulkReport
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*dispatch.BulkReport)
	}
	return r0, ret.Error(1)
}

func newDispatchRouter(svc dispatch.Service) *chi.Mux {
	h := handler.NewDispatchHandler(svc, testLogger)
	r := chi.NewRouter()
	r.Post("/loans/{loanID}/call", h.Call)
	r.Post("/loans/{loanID}/payment-link", h.PaymentLink)
	r.Post("/dispatch/overdue", h.DispatchOverdue)
	r.Post("/dispatch/predue", h.DispatchPreDue)
	return r
}

func TestCallHandlerDefaultTemplate(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchReminder", mock.Anything, int64(5), message.Key("")).
		Return(&dispatch.Result{LoanID: 5, Status: "mock_call_logged", Text: "Hello Ravi"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/loans/5/call", nil)
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dispatch.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mock_call_logged", resp.Status)
	svc.AssertExpectations(t)
}

func TestCallHandlerExplicitTemplate(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchReminder", mock.Anything, int64(5), message.KeyPreDueReminder).
		Return(&dispatch.Result{LoanID: 5, Status: "mock_call_logged"}, nil)

	body, _ := json.Marshal(map[string]string{"template": "pre_due_reminder"})
	req := httptest.NewRequest(http.MethodPost, "/loans/5/call", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCallHandlerRejectsUnknownTemplate(t *testing.T) {
	svc := new(MockDispatchService)

	body, _ := json.Marshal(map[string]string{"template": "marketing_blast"})
	req := httptest.NewRequest(http.MethodPost, "/loans/5/call", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "DispatchReminder")
}

func TestCallHandlerChannelFailureMapsToBadGateway(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchReminder", mock.Anything, int64(5), message.Key("")).
		Return(nil, apperrors.WrapChannelError(assert.AnError, "place call"))

	req := httptest.NewRequest(http.MethodPost, "/loans/5/call", nil)
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPaymentLinkHandler(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchPaymentLink", mock.Anything, int64(5)).
		Return(&dispatch.Result{LoanID: 5, Status: "payment_link_sent", Link: "https://pay.emigenie.example.com/pay?loan=5&amount=2500"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/loans/5/payment-link", nil)
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dispatch.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Link, "loan=5")
	svc.AssertExpectations(t)
}

func TestDispatchOverdueHandler(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchOverdue", mock.Anything).
		Return(&dispatch.BulkReport{Succeeded: 3, FailedLoanIDs: []int64{9}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/dispatch/overdue", nil)
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dispatch.BulkReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Succeeded)
	assert.Equal(t, []int64{9}, resp.FailedLoanIDs)
}

func TestDispatchPreDueHandler(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchPreDue", mock.Anything).
		Return(&dispatch.BulkReport{Succeeded: 1, FailedLoanIDs: []int64{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/dispatch/predue", nil)
	rec := httptest.NewRecorder()

	newDispatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
