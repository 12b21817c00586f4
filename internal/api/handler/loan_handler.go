package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"emi-genie/internal/api/handler/dto"
	"emi-genie/internal/domain/registry"
	"emi-genie/internal/pkg/apperrors"
)

type LoanHandler struct {
	service registry.Service
	logger  *slog.Logger
}

func NewLoanHandler(s registry.Service, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("registry service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles POST /loans.
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Create loan validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	loanID, err := h.service.CreateLoan(r.Context(), req.CustomerID, req.EMIAmount, req.ParsedDueDate())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan created successfully", slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusCreated, dto.LoanCreatedResponse{LoanID: loanID})
}

// ListLoans handles GET /loans with optional status, language, dueFrom and
// dueTo query filters.
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	filter, err := loanFilterFromQuery(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid loan filter", slog.Any("error", err))
		respondError(w, err)
		return
	}

	loans, err := h.service.ListLoans(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loans)
}

// GetLoan handles GET /loans/{loanID}.
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.service.GetLoanView(r.Context(), loanID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanViewResponse(view))
}

// MarkPaid handles POST /loans/{loanID}/paid.
func (h *LoanHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.MarkPaid(r.Context(), loanID); err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to mark loan paid",
			slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan marked paid", slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusOK, dto.MarkPaidResponse{LoanID: loanID, Status: string(registry.StatusPaid)})
}

// Reschedule handles POST /loans/{loanID}/reschedule.
func (h *LoanHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	// The body is optional; an empty one applies the default extension.
	var req dto.RescheduleRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
			respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
			return
		}
	}

	newDue, err := h.service.Reschedule(r.Context(), loanID, req.ExtensionDays)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to reschedule loan",
			slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan rescheduled",
		slog.Int64("loanID", loanID), slog.Time("newDueDate", newDue))
	respondJSON(w, http.StatusOK, dto.RescheduleResponse{
		LoanID:     loanID,
		Status:     string(registry.StatusRescheduled),
		NewDueDate: newDue.Format("2006-01-02"),
	})
}

// ListLoanEvents handles GET /loans/{loanID}/events.
func (h *LoanHandler) ListLoanEvents(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}
	h.listEvents(w, r, loanID)
}

// ListAllEvents handles GET /events: the whole audit trail, newest first.
func (h *LoanHandler) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	h.listEvents(w, r, 0)
}

func (h *LoanHandler) listEvents(w http.ResponseWriter, r *http.Request, loanID int64) {
	events, err := h.service.ListEvents(r.Context(), loanID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list events",
			slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func loanFilterFromQuery(r *http.Request) (registry.LoanFilter, error) {
	filter := registry.LoanFilter{
		Status:   registry.LoanStatus(r.URL.Query().Get("status")),
		Language: r.URL.Query().Get("language"),
	}

	switch filter.Status {
	case "", registry.StatusDue, registry.StatusPaid, registry.StatusRescheduled:
	default:
		return registry.LoanFilter{}, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidArgument, filter.Status)
	}

	for param, dest := range map[string]**time.Time{
		"dueFrom": &filter.DueFrom,
		"dueTo":   &filter.DueTo,
	} {
		raw := r.URL.Query().Get(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return registry.LoanFilter{}, fmt.Errorf("%w: %s must be formatted as 2006-01-02", apperrors.ErrInvalidArgument, param)
		}
		*dest = &t
	}

	return filter, nil
}
