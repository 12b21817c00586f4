// Command seed loads a demo data set: a multilingual customer base with one
// or two loans each, skewed toward loans still due so the dispatch sweeps
// have something to work on.
package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"emi-genie/internal/config"
	"emi-genie/internal/domain/registry"
	"emi-genie/internal/event"
	"emi-genie/internal/infrastructure/database/postgres"
	"emi-genie/internal/infrastructure/logging"
)

type seedCustomer struct {
	name     string
	phone    string
	language string
}

var demoCustomers = []seedCustomer{
	{"Ravi Kumar", "+919876500001", "hi"},
	{"Ananya Sharma", "+919876500002", "hi"},
	{"Sourav Das", "+919876500003", "bn"},
	{"Priya Chatterjee", "+919876500004", "bn"},
	{"Karthik Subramanian", "+919876500005", "ta"},
	{"Meena Iyer", "+919876500006", "ta"},
	{"Lakshmi Reddy", "+919876500013", "te"},
	{"Sunil Patil", "+919876500007", "mr"},
	{"Aarti Deshmukh", "+919876500008", "mr"},
	{"Carlos Mendez", "+529876500009", "es"},
	{"Marie Dubois", "+339876500010", "fr"},
	{"John Peterson", "+149876500011", "en"},
	{"Sarah Williams", "+149876500012", "en"},
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Logger)

	ctx := context.Background()
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := postgres.EnsureSchema(ctx, dbPool, logger); err != nil {
		logger.Error("Failed to ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	repo := postgres.NewRegistryRepository(dbPool, logger)
	svc := registry.NewService(repo, event.NoopPublisher{}, cfg.Dispatch.RescheduleExtensionDays, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var customers, loans int
	for _, c := range demoCustomers {
		customerID, err := svc.CreateCustomer(ctx, c.name, c.phone, c.language)
		if err != nil {
			logger.Error("Failed to seed customer", slog.String("name", c.name), slog.Any("error", err))
			os.Exit(1)
		}
		customers++

		for i := 0; i < 1+rng.Intn(2); i++ {
			loanID, err := seedLoan(ctx, svc, rng, customerID, today)
			if err != nil {
				logger.Error("Failed to seed loan", slog.Int64("customerID", customerID), slog.Any("error", err))
				os.Exit(1)
			}
			loans++
			logger.Debug("Seeded loan", slog.Int64("customerID", customerID), slog.Int64("loanID", loanID))
		}
	}

	logger.Info("Demo data loaded.", slog.Int("customers", customers), slog.Int("loans", loans))
}

// seedLoan creates one loan with a status-appropriate due date: due loans sit
// around today so the sweeps pick them up, paid and rescheduled loans get a
// matching history.
func seedLoan(ctx context.Context, svc registry.Service, rng *rand.Rand, customerID int64, today time.Time) (int64, error) {
	amount := int64(15+rng.Intn(66)) * 100

	roll := rng.Float64()
	switch {
	case roll < 0.7:
		// Still due: spread from a week overdue to a week out, which covers
		// both the overdue and pre-due selection windows.
		dueDate := today.AddDate(0, 0, rng.Intn(15)-7)
		return svc.CreateLoan(ctx, customerID, amount, dueDate)

	case roll < 0.9:
		dueDate := today.AddDate(0, 0, -rng.Intn(14))
		loanID, err := svc.CreateLoan(ctx, customerID, amount, dueDate)
		if err != nil {
			return 0, err
		}
		if err := svc.MarkPaid(ctx, loanID); err != nil {
			return 0, err
		}
		return loanID, nil

	default:
		dueDate := today.AddDate(0, 0, -rng.Intn(7))
		loanID, err := svc.CreateLoan(ctx, customerID, amount, dueDate)
		if err != nil {
			return 0, err
		}
		if _, err := svc.Reschedule(ctx, loanID, 0); err != nil {
			return 0, err
		}
		return loanID, nil
	}
}
