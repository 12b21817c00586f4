package handler

import (
	"log/slog"
	"net/http"

	"emi-genie/internal/domain/report"
)

type ReportHandler struct {
	service report.Service
	logger  *slog.Logger
}

func NewReportHandler(s report.Service, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReportHandler{
		service: s,
		logger:  l.With("component", "ReportHandler"),
	}
}

// StatusCounts handles GET /reports/status-counts.
func (h *ReportHandler) StatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.StatusCounts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build status counts", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

// Conversion handles GET /reports/conversion.
func (h *ReportHandler) Conversion(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Conversion(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build conversion report", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}
