package registry

import "time"

type LoanStatus string

const (
	StatusDue         LoanStatus = "due"
	StatusPaid        LoanStatus = "paid"
	StatusRescheduled LoanStatus = "rescheduled"
)

type EventKind string

const (
	EventCallInitiated   EventKind = "call_initiated"
	EventCallPlaced      EventKind = "call_placed"
	EventCallMocked      EventKind = "call_mocked"
	EventPaymentLinkSent EventKind = "payment_link_sent"
	EventMarkedPaid      EventKind = "marked_paid"
	EventRescheduled     EventKind = "rescheduled"
	EventDispatchFailed  EventKind = "dispatch_failed"
)

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

type Loan struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customerId"`
	EMIAmount  int64      `json:"emiAmount"`
	DueDate    time.Time  `json:"dueDate"`
	Status     LoanStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Event is an immutable audit log entry. Events are only ever appended;
// they are the sole input to the call-effectiveness analytics.
type Event struct {
	ID        int64     `json:"id"`
	LoanID    int64     `json:"loanId"`
	Kind      EventKind `json:"event"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"ts"`
}

// LoanView joins a loan with its owning customer, shaped for the dispatcher.
type LoanView struct {
	LoanID       int64
	EMIAmount    int64
	DueDate      time.Time
	Status       LoanStatus
	CustomerID   int64
	CustomerName string
	Phone        string
	Language     string
}

// LoanSummary is the operator-facing list row.
type LoanSummary struct {
	ID           int64      `json:"id"`
	CustomerName string     `json:"customerName"`
	EMIAmount    int64      `json:"emiAmount"`
	DueDate      time.Time  `json:"dueDate"`
	Status       LoanStatus `json:"status"`
	Language     string     `json:"language"`
}

// LoanFilter narrows ListLoans. Zero values mean "no constraint".
type LoanFilter struct {
	Status   LoanStatus
	Language string
	DueFrom  *time.Time
	DueTo    *time.Time
}

// ConversionSample pairs a loan's first reminder call with its first payment
// mark, if any. FirstPaid is nil for loans that were called but never paid.
type ConversionSample struct {
	LoanID    int64
	FirstCall time.Time
	FirstPaid *time.Time
}
