package batch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"emi-genie/internal/domain/dispatch"
	"emi-genie/internal/message"
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

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestReminderSweepRunsOverdueThenPreDue(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchOverdue", mock.Anything).Return(&dispatch.BulkReport{Succeeded: 2}, nil).Once()
	svc.On("DispatchPreDue", mock.Anything).Return(&dispatch.BulkReport{Succeeded: 1}, nil).Once()

	job := NewReminderSweepJob(svc, testLogger)
	err := job.Run(context.Background())

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestReminderSweepAbortsWhenOverdueSweepFails(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchOverdue", mock.Anything).Return(nil, assert.AnError).Once()

	job := NewReminderSweepJob(svc, testLogger)
	err := job.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	svc.AssertNotCalled(t, "DispatchPreDue")
}

func TestReminderSweepSurfacesPreDueFailure(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("DispatchOverdue", mock.Anything).Return(&dispatch.BulkReport{Succeeded: 2}, nil).Once()
	svc.On("DispatchPreDue", mock.Anything).Return(nil, assert.AnError).Once()

	job := NewReminderSweepJob(svc, testLogger)
	err := job.Run(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}
