package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"emi-genie/internal/api/handler/dto"
	"emi-genie/internal/domain/registry"
	"emi-genie/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service registry.Service
	logger  *slog.Logger
}

func NewCustomerHandler(s registry.Service, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("registry service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /customers.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Create customer validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	customerID, err := h.service.CreateCustomer(r.Context(), req.Name, req.Phone, req.Language)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusCreated, dto.CustomerCreatedResponse{CustomerID: customerID})
}

// Intake handles POST /intake: customer plus first loan in one request.
func (h *CustomerHandler) Intake(w http.ResponseWriter, r *http.Request) {
	var req dto.IntakeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Intake validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	customerID, loanID, err := h.service.Intake(r.Context(), req.Name, req.Phone, req.Language, req.EMIAmount, req.ParsedDueDate())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to complete intake", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Intake completed",
		slog.Int64("customerID", customerID), slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusCreated, dto.IntakeResponse{CustomerID: customerID, LoanID: loanID})
}
