package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"emi-genie/internal/domain/dispatch"
)

// ReminderSweepJob runs the scheduled reminder pass: first the overdue
// catch-all, then the pre-due advance nudge. Loans are dispatched one at a
// time; the telephony provider is the bottleneck, not this loop.
type ReminderSweepJob struct {
	dispatcher dispatch.Service
	logger     *slog.Logger
}

func NewReminderSweepJob(dispatcher dispatch.Service, logger *slog.Logger) *ReminderSweepJob {
	if dispatcher == nil || logger == nil {
		panic("ReminderSweepJob dependencies cannot be nil")
	}
	return &ReminderSweepJob{
		dispatcher: dispatcher,
		logger:     logger.With("job", "ReminderSweep"),
	}
}

func (j *ReminderSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting scheduled reminder sweep.")

	overdue, err := j.dispatcher.DispatchOverdue(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue sweep aborted.", slog.Any("error", err))
		return fmt.Errorf("overdue sweep failed: %w", err)
	}
	j.logger.InfoContext(ctx, "Overdue sweep finished.",
		slog.Int("succeeded", overdue.Succeeded),
		slog.Int("failed", len(overdue.FailedLoanIDs)))

	predue, err := j.dispatcher.DispatchPreDue(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Pre-due sweep aborted.", slog.Any("error", err))
		return fmt.Errorf("pre-due sweep failed: %w", err)
	}
	j.logger.InfoContext(ctx, "Pre-due sweep finished.",
		slog.Int("succeeded", predue.Succeeded),
		slog.Int("failed", len(predue.FailedLoanIDs)))

	j.logger.InfoContext(ctx, "Reminder sweep finished.",
		slog.Int("totalSucceeded", overdue.Succeeded+predue.Succeeded),
		slog.Int("totalFailed", len(overdue.FailedLoanIDs)+len(predue.FailedLoanIDs)),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}
