package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"emi-genie/internal/event"
	"emi-genie/internal/message"
	"emi-genie/internal/pkg/apperrors"
)

// Service is the authoritative owner of customer, loan and event state.
// All lifecycle transitions go through here; the dispatcher only reads and
// appends events.
type Service interface {
	CreateCustomer(ctx context.Context, name, phone, language string) (int64, error)

	CreateLoan(ctx context.Context, customerID, amount int64, dueDate time.Time) (int64, error)

	// Intake creates a customer and their first loan in one call, the way
	// the dashboard's create form does.
	Intake(ctx context.Context, name, phone, language string, amount int64, dueDate time.Time) (customerID, loanID int64, err error)

	GetLoanView(ctx context.Context, loanID int64) (*LoanView, error)

	MarkPaid(ctx context.Context, loanID int64) error

	// Reschedule extends the due date; extensionDays <= 0 applies the
	// configured default.
	Reschedule(ctx context.Context, loanID int64, extensionDays int) (time.Time, error)

	SelectOverdue(ctx context.Context, asOf time.Time) ([]int64, error)

	SelectPreDue(ctx context.Context, target time.Time) ([]int64, error)

	AppendEvent(ctx context.Context, loanID int64, kind EventKind, detail string) error

	ListLoans(ctx context.Context, filter LoanFilter) ([]LoanSummary, error)

	ListEvents(ctx context.Context, loanID int64) ([]Event, error)
}

var _ Service = (*registryService)(nil)

type registryService struct {
	repo                 Repository
	pub                  event.Publisher
	logger               *slog.Logger
	defaultExtensionDays int
}

func NewService(repo Repository, pub event.Publisher, defaultExtensionDays int, logger *slog.Logger) Service {
	if repo == nil {
		panic("registry repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if defaultExtensionDays <= 0 {
		defaultExtensionDays = 7
	}
	return &registryService{
		repo:                 repo,
		pub:                  pub,
		logger:               logger.With(slog.String("component", "registryService")),
		defaultExtensionDays: defaultExtensionDays,
	}
}

func (s *registryService) CreateCustomer(ctx context.Context, name, phone, language string) (int64, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		s.logger.WarnContext(ctx, "Validation failed: contact phone is empty")
		return 0, apperrors.NewValidationError("phone", "contact phone cannot be empty")
	}
	if language == "" {
		language = message.FallbackLanguage
	}

	customer := &Customer{Name: strings.TrimSpace(name), Phone: phone, Language: language}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save new customer", slog.Any("error", err))
		return 0, fmt.Errorf("failed to save new customer: %w", err)
	}

	s.logger.InfoContext(ctx, "Customer created", slog.Int64("customerID", customer.ID), slog.String("language", language))
	return customer.ID, nil
}

func (s *registryService) CreateLoan(ctx context.Context, customerID, amount int64, dueDate time.Time) (int64, error) {
	if amount <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: non-positive EMI amount", slog.Int64("amount", amount))
		return 0, apperrors.NewValidationError("emiAmount", "EMI amount must be positive")
	}

	loan := &Loan{
		CustomerID: customerID,
		EMIAmount:  amount,
		DueDate:    dueDate,
		Status:     StatusDue,
	}
	if err := s.repo.CreateLoan(ctx, loan); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save new loan", slog.Int64("customerID", customerID), slog.Any("error", err))
		return 0, fmt.Errorf("failed to save new loan: %w", err)
	}

	s.logger.InfoContext(ctx, "Loan created", slog.Int64("loanID", loan.ID), slog.Int64("customerID", customerID))
	return loan.ID, nil
}

func (s *registryService) Intake(ctx context.Context, name, phone, language string, amount int64, dueDate time.Time) (int64, int64, error) {
	customerID, err := s.CreateCustomer(ctx, name, phone, language)
	if err != nil {
		return 0, 0, err
	}
	loanID, err := s.CreateLoan(ctx, customerID, amount, dueDate)
	if err != nil {
		return 0, 0, err
	}
	return customerID, loanID, nil
}

func (s *registryService) GetLoanView(ctx context.Context, loanID int64) (*LoanView, error) {
	view, err := s.repo.GetLoanView(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *registryService) MarkPaid(ctx context.Context, loanID int64) error {
	if err := s.repo.MarkPaid(ctx, loanID, "Webhook/Manual"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark loan paid", slog.Int64("loanID", loanID), slog.Any("error", err))
		return err
	}
	s.logger.InfoContext(ctx, "Loan marked paid", slog.Int64("loanID", loanID))
	s.publishLifecycle(ctx, loanID, StatusPaid, nil)
	return nil
}

func (s *registryService) Reschedule(ctx context.Context, loanID int64, extensionDays int) (time.Time, error) {
	if extensionDays <= 0 {
		extensionDays = s.defaultExtensionDays
	}
	newDue, err := s.repo.Reschedule(ctx, loanID, extensionDays)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to reschedule loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return time.Time{}, err
	}
	s.logger.InfoContext(ctx, "Loan rescheduled",
		slog.Int64("loanID", loanID),
		slog.Int("extensionDays", extensionDays),
		slog.Time("newDueDate", newDue))
	s.publishLifecycle(ctx, loanID, StatusRescheduled, &newDue)
	return newDue, nil
}

func (s *registryService) SelectOverdue(ctx context.Context, asOf time.Time) ([]int64, error) {
	return s.repo.SelectOverdue(ctx, asOf)
}

func (s *registryService) SelectPreDue(ctx context.Context, target time.Time) ([]int64, error) {
	return s.repo.SelectPreDue(ctx, target)
}

func (s *registryService) AppendEvent(ctx context.Context, loanID int64, kind EventKind, detail string) error {
	return s.repo.AppendEvent(ctx, loanID, kind, detail)
}

func (s *registryService) ListLoans(ctx context.Context, filter LoanFilter) ([]LoanSummary, error) {
	return s.repo.ListLoans(ctx, filter)
}

func (s *registryService) ListEvents(ctx context.Context, loanID int64) ([]Event, error) {
	return s.repo.ListEvents(ctx, loanID)
}

// publishLifecycle fans the transition out to the message broker. Publishing
// is best-effort: the store is already committed and stays authoritative.
func (s *registryService) publishLifecycle(ctx context.Context, loanID int64, status LoanStatus, newDue *time.Time) {
	payload := event.LoanLifecycleEvent{
		LoanID:    loanID,
		Status:    string(status),
		Timestamp: time.Now(),
	}
	if newDue != nil {
		payload.NewDueDate = newDue.Format("2006-01-02")
	}

	var err error
	switch status {
	case StatusPaid:
		err = s.pub.PublishLoanPaid(ctx, payload)
	case StatusRescheduled:
		err = s.pub.PublishLoanRescheduled(ctx, payload)
	default:
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish loan lifecycle event",
			slog.Int64("loanID", loanID), slog.String("status", string(status)), slog.Any("error", err))
	}
}
