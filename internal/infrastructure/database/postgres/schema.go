package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaDDL is idempotent so a fresh demo database bootstraps itself on the
// first start. Referential integrity between loans, customers and the audit
// log is enforced by the store.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL,
		language   TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id          BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		emi_amount  BIGINT NOT NULL,
		due_date    DATE NOT NULL,
		status      TEXT NOT NULL DEFAULT 'due',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS call_logs (
		id      BIGSERIAL PRIMARY KEY,
		loan_id BIGINT NOT NULL REFERENCES loans(id),
		event   TEXT NOT NULL,
		detail  TEXT NOT NULL DEFAULT '',
		ts      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_status_due_date ON loans (status, due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_call_logs_loan_event ON call_logs (loan_id, event)`,
}

func EnsureSchema(ctx context.Context, db DBPool, logger *slog.Logger) error {
	logger.Info("Ensuring database schema...")
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	logger.Info("Database schema ready.")
	return nil
}
