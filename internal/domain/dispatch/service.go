package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"emi-genie/internal/domain/registry"
	"emi-genie/internal/infrastructure/monitoring"
	"emi-genie/internal/message"
	"emi-genie/internal/notify"
	"emi-genie/internal/pkg/apperrors"
)

// dueDateLayout is the human-facing date format spoken in reminders.
const dueDateLayout = "January 2, 2006"

// Registry is the slice of the loan registry the dispatcher consumes. The
// dispatcher never mutates loan state; it reads views and appends events.
type Registry interface {
	GetLoanView(ctx context.Context, loanID int64) (*registry.LoanView, error)

	AppendEvent(ctx context.Context, loanID int64, kind registry.EventKind, detail string) error

	SelectOverdue(ctx context.Context, asOf time.Time) ([]int64, error)

	SelectPreDue(ctx context.Context, target time.Time) ([]int64, error)
}

// Result reports a single dispatch. Text carries the rendered message when
// no live channel is configured, so demos and tests can assert on it.
type Result struct {
	LoanID     int64  `json:"loanId"`
	Status     string `json:"status"`
	ProviderID string `json:"providerId,omitempty"`
	Text       string `json:"text,omitempty"`
	Link       string `json:"link,omitempty"`
}

// BulkReport summarizes a bulk dispatch: per-item failures are collected,
// never retried, and never abort the rest of the batch.
type BulkReport struct {
	Succeeded     int     `json:"succeeded"`
	FailedLoanIDs []int64 `json:"failedLoanIds"`
}

type Service interface {
	DispatchReminder(ctx context.Context, loanID int64, key message.Key) (*Result, error)

	DispatchPaymentLink(ctx context.Context, loanID int64) (*Result, error)

	DispatchBulk(ctx context.Context, loanIDs []int64, key message.Key) (*BulkReport, error)

	// DispatchOverdue sweeps every loan still due with a due date on or
	// before today.
	DispatchOverdue(ctx context.Context) (*BulkReport, error)

	// DispatchPreDue sweeps loans due exactly lookahead days from today.
	// The exact-date match is deliberate: pre-due is a one-shot advance
	// nudge, overdue is the sweeping catch-all.
	DispatchPreDue(ctx context.Context) (*BulkReport, error)
}

var _ Service = (*dispatchService)(nil)

type dispatchService struct {
	reg           Registry
	resolver      *message.Resolver
	channel       notify.Channel
	logger        *slog.Logger
	lookaheadDays int
	now           func() time.Time
}

func NewService(reg Registry, resolver *message.Resolver, channel notify.Channel, lookaheadDays int, logger *slog.Logger) Service {
	if reg == nil || resolver == nil || channel == nil {
		panic("dispatch service dependencies cannot be nil")
	}
	if lookaheadDays <= 0 {
		lookaheadDays = 3
	}
	return &dispatchService{
		reg:           reg,
		resolver:      resolver,
		channel:       channel,
		logger:        logger.With(slog.String("component", "dispatchService")),
		lookaheadDays: lookaheadDays,
		now:           time.Now,
	}
}

func (s *dispatchService) DispatchReminder(ctx context.Context, loanID int64, key message.Key) (*Result, error) {
	if key == "" {
		key = message.KeyReminder
	}
	logCtx := s.logger.With(slog.Int64("loanID", loanID), slog.String("templateKey", string(key)))

	view, err := s.reg.GetLoanView(ctx, loanID)
	if err != nil {
		// No side effects before the existence check: a reminder for a
		// missing loan leaves zero events behind.
		logCtx.WarnContext(ctx, "Cannot dispatch reminder", slog.Any("error", err))
		return nil, err
	}

	tmpl, err := s.resolver.Resolve(view.Language, key)
	if err != nil {
		logCtx.ErrorContext(ctx, "Template resolution failed", slog.Any("error", err))
		return nil, err
	}
	text := message.Render(tmpl, view.CustomerName, view.EMIAmount, view.DueDate.Format(dueDateLayout))

	if err := s.reg.AppendEvent(ctx, loanID, registry.EventCallInitiated, "to "+view.Phone); err != nil {
		return nil, err
	}

	sid, err := s.channel.PlaceCall(ctx, view.Phone, text)
	if err != nil {
		monitoring.RecordDispatch("voice", "failed")
		// The call_initiated event stays: the audit trail must reflect
		// that we tried. The failure itself is recorded too.
		if logErr := s.reg.AppendEvent(ctx, loanID, registry.EventDispatchFailed, err.Error()); logErr != nil {
			logCtx.ErrorContext(ctx, "Failed to record dispatch failure", slog.Any("error", logErr))
		}
		return nil, err
	}

	if s.channel.Live() {
		if err := s.reg.AppendEvent(ctx, loanID, registry.EventCallPlaced, sid); err != nil {
			return nil, err
		}
		monitoring.RecordDispatch("voice", "placed")
		logCtx.InfoContext(ctx, "Voice reminder placed", slog.String("sid", sid))
		return &Result{LoanID: loanID, Status: "call_placed", ProviderID: sid}, nil
	}

	if err := s.reg.AppendEvent(ctx, loanID, registry.EventCallMocked, text); err != nil {
		return nil, err
	}
	monitoring.RecordDispatch("voice", "mocked")
	logCtx.InfoContext(ctx, "Voice reminder mocked")
	return &Result{LoanID: loanID, Status: "mock_call_logged", Text: text}, nil
}

func (s *dispatchService) DispatchPaymentLink(ctx context.Context, loanID int64) (*Result, error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID))

	view, err := s.reg.GetLoanView(ctx, loanID)
	if err != nil {
		logCtx.WarnContext(ctx, "Cannot dispatch payment link", slog.Any("error", err))
		return nil, err
	}

	// Deterministic reference only; payment initiation itself is out of
	// scope, so no gateway is contacted.
	link := fmt.Sprintf("https://pay.emigenie.example.com/pay?loan=%d&amount=%d", view.LoanID, view.EMIAmount)
	body := fmt.Sprintf("EMI Genie: Pay your EMI of Rs %d. Click %s", view.EMIAmount, link)

	detail, err := s.channel.SendSMS(ctx, view.Phone, body)
	if err != nil {
		monitoring.RecordDispatch("sms", "failed")
		if logErr := s.reg.AppendEvent(ctx, loanID, registry.EventDispatchFailed, err.Error()); logErr != nil {
			logCtx.ErrorContext(ctx, "Failed to record dispatch failure", slog.Any("error", logErr))
		}
		return nil, err
	}

	if err := s.reg.AppendEvent(ctx, loanID, registry.EventPaymentLinkSent, detail); err != nil {
		return nil, err
	}
	monitoring.RecordDispatch("sms", "sent")
	logCtx.InfoContext(ctx, "Payment link sent", slog.String("detail", detail))
	return &Result{LoanID: loanID, Status: "payment_link_sent", ProviderID: detail, Link: link}, nil
}

func (s *dispatchService) DispatchBulk(ctx context.Context, loanIDs []int64, key message.Key) (*BulkReport, error) {
	report := &BulkReport{FailedLoanIDs: make([]int64, 0)}

	for _, loanID := range loanIDs {
		// Cooperative cancellation between items only; a started item
		// always runs to completion.
		if err := ctx.Err(); err != nil {
			return report, err
		}

		_, err := s.DispatchReminder(ctx, loanID, key)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrChannel) {
				s.logger.WarnContext(ctx, "Bulk dispatch item failed",
					slog.Int64("loanID", loanID), slog.Any("error", err))
				report.FailedLoanIDs = append(report.FailedLoanIDs, loanID)
				continue
			}
			// Store or configuration failures abort the whole batch.
			return report, err
		}
		report.Succeeded++
	}

	return report, nil
}

func (s *dispatchService) DispatchOverdue(ctx context.Context) (*BulkReport, error) {
	start := s.now()
	today := truncateToDate(start)

	ids, err := s.reg.SelectOverdue(ctx, today)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Overdue sweep selected loans", slog.Int("count", len(ids)))

	report, err := s.DispatchBulk(ctx, ids, message.KeyReminder)
	monitoring.RecordBulkDispatch("overdue", time.Since(start))
	return report, err
}

func (s *dispatchService) DispatchPreDue(ctx context.Context) (*BulkReport, error) {
	start := s.now()
	target := truncateToDate(start).AddDate(0, 0, s.lookaheadDays)

	ids, err := s.reg.SelectPreDue(ctx, target)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Pre-due sweep selected loans",
		slog.Int("count", len(ids)), slog.Time("targetDate", target))

	report, err := s.DispatchBulk(ctx, ids, message.KeyPreDueReminder)
	monitoring.RecordBulkDispatch("predue", time.Since(start))
	return report, err
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
