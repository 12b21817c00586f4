package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"emi-genie/internal/api/handler/dto"
	"emi-genie/internal/domain/dispatch"
	"emi-genie/internal/pkg/apperrors"
)

type DispatchHandler struct {
	service dispatch.Service
	logger  *slog.Logger
}

func NewDispatchHandler(s dispatch.Service, l *slog.Logger) *DispatchHandler {
	if s == nil {
		panic("dispatch service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &DispatchHandler{
		service: s,
		logger:  l.With("component", "DispatchHandler"),
	}
}

// Call handles POST /loans/{loanID}/call.
func (h *DispatchHandler) Call(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CallRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
			respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
			return
		}
	}
	key, err := req.TemplateKey()
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.service.DispatchReminder(r.Context(), loanID, key)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Reminder dispatch failed",
			slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// PaymentLink handles POST /loans/{loanID}/payment-link.
func (h *DispatchHandler) PaymentLink(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.service.DispatchPaymentLink(r.Context(), loanID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Payment link dispatch failed",
			slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DispatchOverdue handles POST /dispatch/overdue.
func (h *DispatchHandler) DispatchOverdue(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.DispatchOverdue(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Overdue sweep failed", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// DispatchPreDue handles POST /dispatch/predue.
func (h *DispatchHandler) DispatchPreDue(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.DispatchPreDue(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Pre-due sweep failed", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
