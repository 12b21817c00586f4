// Package report derives the dashboard analytics from the registry's
// immutable event log and loan table. It owns no state of its own.
package report

import (
	"context"
	"log/slog"
	"time"

	"emi-genie/internal/domain/registry"
)

// ConversionWindow bounds how long after the first call a payment still
// counts as a conversion.
const ConversionWindow = 48 * time.Hour

type Repository interface {
	CountByStatus(ctx context.Context) (map[registry.LoanStatus]int64, error)

	ConversionSamples(ctx context.Context) ([]registry.ConversionSample, error)
}

// ConversionReport measures call effectiveness. Loans called but paid
// outside the window (or never) stay in the denominator.
type ConversionReport struct {
	CalledLoans    int           `json:"calledLoans"`
	ConvertedLoans int           `json:"convertedLoans"`
	ConversionRate float64       `json:"conversionRatePercent"`
	AvgTimeToPay   time.Duration `json:"avgTimeToPayNs"`
}

type Service interface {
	StatusCounts(ctx context.Context) (map[registry.LoanStatus]int64, error)

	Conversion(ctx context.Context) (*ConversionReport, error)
}

var _ Service = (*reportService)(nil)

type reportService struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("report repository cannot be nil")
	}
	return &reportService{
		repo:   repo,
		logger: logger.With(slog.String("component", "reportService")),
	}
}

func (s *reportService) StatusCounts(ctx context.Context) (map[registry.LoanStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count loans by status", slog.Any("error", err))
		return nil, err
	}
	return counts, nil
}

func (s *reportService) Conversion(ctx context.Context) (*ConversionReport, error) {
	samples, err := s.repo.ConversionSamples(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load conversion samples", slog.Any("error", err))
		return nil, err
	}

	report := &ConversionReport{CalledLoans: len(samples)}
	var totalTimeToPay time.Duration
	for _, sample := range samples {
		if sample.FirstPaid == nil {
			continue
		}
		timeToPay := sample.FirstPaid.Sub(sample.FirstCall)
		if timeToPay < 0 || timeToPay > ConversionWindow {
			continue
		}
		report.ConvertedLoans++
		totalTimeToPay += timeToPay
	}

	if report.CalledLoans > 0 {
		report.ConversionRate = float64(report.ConvertedLoans) / float64(report.CalledLoans) * 100
	}
	if report.ConvertedLoans > 0 {
		report.AvgTimeToPay = totalTimeToPay / time.Duration(report.ConvertedLoans)
	}
	return report, nil
}
