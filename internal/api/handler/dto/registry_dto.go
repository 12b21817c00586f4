package dto

import (
	"fmt"
	"strings"
	"time"

	"emi-genie/internal/domain/registry"
)

// dateLayout is the wire format for due dates.
const dateLayout = "2006-01-02"

type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	return nil
}

type CreateLoanRequest struct {
	CustomerID int64  `json:"customerId"`
	EMIAmount  int64  `json:"emiAmount"`
	DueDate    string `json:"dueDate"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be a positive number")
	}
	if r.EMIAmount <= 0 {
		return fmt.Errorf("emiAmount must be a positive number")
	}
	if _, err := time.Parse(dateLayout, r.DueDate); err != nil {
		return fmt.Errorf("dueDate must be formatted as %s", dateLayout)
	}
	return nil
}

func (r *CreateLoanRequest) ParsedDueDate() time.Time {
	t, _ := time.Parse(dateLayout, r.DueDate)
	return t
}

// IntakeRequest onboards a customer together with their first loan.
type IntakeRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Language  string `json:"language"`
	EMIAmount int64  `json:"emiAmount"`
	DueDate   string `json:"dueDate"`
}

func (r *IntakeRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	if r.EMIAmount <= 0 {
		return fmt.Errorf("emiAmount must be a positive number")
	}
	if _, err := time.Parse(dateLayout, r.DueDate); err != nil {
		return fmt.Errorf("dueDate must be formatted as %s", dateLayout)
	}
	return nil
}

func (r *IntakeRequest) ParsedDueDate() time.Time {
	t, _ := time.Parse(dateLayout, r.DueDate)
	return t
}

type RescheduleRequest struct {
	// ExtensionDays <= 0 applies the configured default extension.
	ExtensionDays int `json:"extensionDays"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type CustomerCreatedResponse struct {
	CustomerID int64 `json:"customerId"`
}

type LoanCreatedResponse struct {
	LoanID int64 `json:"loanId"`
}

type IntakeResponse struct {
	CustomerID int64 `json:"customerId"`
	LoanID     int64 `json:"loanId"`
}

type MarkPaidResponse struct {
	LoanID int64  `json:"loanId"`
	Status string `json:"status"`
}

type RescheduleResponse struct {
	LoanID     int64  `json:"loanId"`
	Status     string `json:"status"`
	NewDueDate string `json:"newDueDate"`
}

type LoanViewResponse struct {
	LoanID       int64  `json:"loanId"`
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Language     string `json:"language"`
	EMIAmount    int64  `json:"emiAmount"`
	DueDate      string `json:"dueDate"`
	Status       string `json:"status"`
}

func NewLoanViewResponse(view *registry.LoanView) LoanViewResponse {
	if view == nil {
		return LoanViewResponse{}
	}
	return LoanViewResponse{
		LoanID:       view.LoanID,
		CustomerID:   view.CustomerID,
		CustomerName: view.CustomerName,
		Phone:        view.Phone,
		Language:     view.Language,
		EMIAmount:    view.EMIAmount,
		DueDate:      view.DueDate.Format(dateLayout),
		Status:       string(view.Status),
	}
}

type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
