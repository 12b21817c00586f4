package registry

import (
	"context"
	"time"
)

// Repository is the persistence contract for the registry. Implementations
// must make every mutating call individually atomic: a loan status change and
// its audit event either both land or neither does.
type Repository interface {
	CreateCustomer(ctx context.Context, customer *Customer) error

	CreateLoan(ctx context.Context, loan *Loan) error

	GetLoanView(ctx context.Context, loanID int64) (*LoanView, error)

	// MarkPaid sets the loan status to paid and appends a marked_paid event
	// in one transaction. Safe to call on an already-paid loan.
	MarkPaid(ctx context.Context, loanID int64, detail string) error

	// Reschedule pushes the due date forward by extensionDays, forces the
	// status to rescheduled, and appends the audit event in one transaction.
	// Returns the new due date.
	Reschedule(ctx context.Context, loanID int64, extensionDays int) (time.Time, error)

	SelectOverdue(ctx context.Context, asOf time.Time) ([]int64, error)

	SelectPreDue(ctx context.Context, target time.Time) ([]int64, error)

	AppendEvent(ctx context.Context, loanID int64, kind EventKind, detail string) error

	ListLoans(ctx context.Context, filter LoanFilter) ([]LoanSummary, error)

	// ListEvents returns the audit trail, newest first. loanID 0 means the
	// whole log.
	ListEvents(ctx context.Context, loanID int64) ([]Event, error)

	CountByStatus(ctx context.Context) (map[LoanStatus]int64, error)

	ConversionSamples(ctx context.Context) ([]ConversionSample, error)
}
