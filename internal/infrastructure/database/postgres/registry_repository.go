package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"emi-genie/internal/domain/registry"
	"emi-genie/internal/infrastructure/monitoring"
	"emi-genie/internal/pkg/apperrors"
)

const errMsgFormat = "%w: %w"

// DBPool is the subset of pgxpool.Pool the repository needs, narrowed so
// tests can substitute pgxmock.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

// RegistryRepository persists customers, loans and the append-only event log
// in PostgreSQL.
type RegistryRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ registry.Repository = (*RegistryRepository)(nil)

func NewRegistryRepository(db DBPool, logger *slog.Logger) *RegistryRepository {
	if db == nil {
		panic("database pool cannot be nil")
	}
	return &RegistryRepository{
		db:     db,
		logger: logger.With(slog.String("component", "RegistryRepository")),
	}
}

// translateDBError maps driver errors onto the domain error taxonomy so
// callers never see pgx internals.
func translateDBError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf(errMsgFormat, apperrors.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		// Foreign key violation: the referenced row does not exist.
		return fmt.Errorf(errMsgFormat, apperrors.ErrNotFound, err)
	}
	return apperrors.WrapStoreError(err, op)
}

func (r *RegistryRepository) CreateCustomer(ctx context.Context, customer *registry.Customer) error {
	query := `INSERT INTO customers (name, phone, language)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, customer.Name, customer.Phone, customer.Language).
		Scan(&customer.ID, &customer.CreatedAt)
	monitoring.RecordDBQuery("create_customer", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translateDBError("create customer", err)
	}
	return nil
}

func (r *RegistryRepository) CreateLoan(ctx context.Context, loan *registry.Loan) error {
	query := `INSERT INTO loans (customer_id, emi_amount, due_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query, loan.CustomerID, loan.EMIAmount, loan.DueDate, loan.Status).
		Scan(&loan.ID, &loan.CreatedAt)
	monitoring.RecordDBQuery("create_loan", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", slog.Int64("customerID", loan.CustomerID), slog.Any("error", err))
		return translateDBError("create loan", err)
	}
	return nil
}

func (r *RegistryRepository) GetLoanView(ctx context.Context, loanID int64) (*registry.LoanView, error) {
	query := `SELECT l.id, l.emi_amount, l.due_date, l.status,
			c.id, c.name, c.phone, c.language
		FROM loans l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.id = $1`

	view := &registry.LoanView{}
	start := time.Now()
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&view.LoanID, &view.EMIAmount, &view.DueDate, &view.Status,
		&view.CustomerID, &view.CustomerName, &view.Phone, &view.Language,
	)
	monitoring.RecordDBQuery("get_loan_view", queryStatus(err), time.Since(start))
	if err != nil {
		return nil, translateDBError("get loan view", err)
	}
	return view, nil
}

func (r *RegistryRepository) MarkPaid(ctx context.Context, loanID int64, detail string) error {
	start := time.Now()
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE loans SET status = $1, updated_at = NOW() WHERE id = $2`,
			registry.StatusPaid, loanID)
		if err != nil {
			return translateDBError("mark paid", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO call_logs (loan_id, event, detail) VALUES ($1, $2, $3)`,
			loanID, registry.EventMarkedPaid, detail); err != nil {
			return translateDBError("record marked_paid", err)
		}
		return nil
	})
	monitoring.RecordDBQuery("mark_paid", queryStatus(err), time.Since(start))
	return err
}

func (r *RegistryRepository) Reschedule(ctx context.Context, loanID int64, extensionDays int) (time.Time, error) {
	var newDue time.Time
	start := time.Now()
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var dueDate time.Time
		err := tx.QueryRow(ctx,
			`SELECT due_date FROM loans WHERE id = $1 FOR UPDATE`, loanID).Scan(&dueDate)
		if err != nil {
			return translateDBError("reschedule", err)
		}

		newDue = dueDate.AddDate(0, 0, extensionDays)
		if _, err := tx.Exec(ctx,
			`UPDATE loans SET status = $1, due_date = $2, updated_at = NOW() WHERE id = $3`,
			registry.StatusRescheduled, newDue, loanID); err != nil {
			return translateDBError("reschedule", err)
		}

		detail := "New due date: " + newDue.Format("2006-01-02")
		if _, err := tx.Exec(ctx,
			`INSERT INTO call_logs (loan_id, event, detail) VALUES ($1, $2, $3)`,
			loanID, registry.EventRescheduled, detail); err != nil {
			return translateDBError("record rescheduled", err)
		}
		return nil
	})
	monitoring.RecordDBQuery("reschedule", queryStatus(err), time.Since(start))
	if err != nil {
		return time.Time{}, err
	}
	return newDue, nil
}

func (r *RegistryRepository) SelectOverdue(ctx context.Context, asOf time.Time) ([]int64, error) {
	query := `SELECT id FROM loans WHERE status = $1 AND due_date <= $2 ORDER BY id ASC`
	return r.selectLoanIDs(ctx, "select_overdue", query, registry.StatusDue, asOf)
}

func (r *RegistryRepository) SelectPreDue(ctx context.Context, target time.Time) ([]int64, error) {
	query := `SELECT id FROM loans WHERE status = $1 AND due_date = $2 ORDER BY id ASC`
	return r.selectLoanIDs(ctx, "select_predue", query, registry.StatusDue, target)
}

func (r *RegistryRepository) selectLoanIDs(ctx context.Context, queryName, query string, args ...any) ([]int64, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	monitoring.RecordDBQuery(queryName, queryStatus(err), time.Since(start))
	if err != nil {
		return nil, translateDBError(queryName, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translateDBError(queryName, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(queryName, err)
	}
	return ids, nil
}

func (r *RegistryRepository) AppendEvent(ctx context.Context, loanID int64, kind registry.EventKind, detail string) error {
	query := `INSERT INTO call_logs (loan_id, event, detail) VALUES ($1, $2, $3)`

	start := time.Now()
	_, err := r.db.Exec(ctx, query, loanID, kind, detail)
	monitoring.RecordDBQuery("append_event", queryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to append event",
			slog.Int64("loanID", loanID), slog.String("event", string(kind)), slog.Any("error", err))
		return translateDBError("append event", err)
	}
	return nil
}

func (r *RegistryRepository) ListLoans(ctx context.Context, filter registry.LoanFilter) ([]registry.LoanSummary, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT l.id, c.name, l.emi_amount, l.due_date, l.status, c.language
		FROM loans l
		JOIN customers c ON c.id = l.customer_id`)

	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		conditions = append(conditions, fmt.Sprintf("c.language = $%d", len(args)))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		conditions = append(conditions, fmt.Sprintf("l.due_date >= $%d", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		conditions = append(conditions, fmt.Sprintf("l.due_date <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY l.id ASC")

	start := time.Now()
	rows, err := r.db.Query(ctx, sb.String(), args...)
	monitoring.RecordDBQuery("list_loans", queryStatus(err), time.Since(start))
	if err != nil {
		return nil, translateDBError("list loans", err)
	}
	defer rows.Close()

	loans := make([]registry.LoanSummary, 0)
	for rows.Next() {
		var l registry.LoanSummary
		if err := rows.Scan(&l.ID, &l.CustomerName, &l.EMIAmount, &l.DueDate, &l.Status, &l.Language); err != nil {
			return nil, translateDBError("list loans", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError("list loans", err)
	}
	return loans, nil
}

func (r *RegistryRepository) ListEvents(ctx context.Context, loanID int64) ([]registry.Event, error) {
	query := `SELECT id, loan_id, event, detail, ts FROM call_logs ORDER BY ts DESC, id DESC`
	args := make([]any, 0, 1)
	if loanID > 0 {
		query = `SELECT id, loan_id, event, detail, ts FROM call_logs
		WHERE loan_id = $1 ORDER BY ts DESC, id DESC`
		args = append(args, loanID)
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	monitoring.RecordDBQuery("list_events", queryStatus(err), time.Since(start))
	if err != nil {
		return nil, translateDBError("list events", err)
	}
	defer rows.Close()

	events := make([]registry.Event, 0)
	for rows.Next() {
		var e registry.Event
		if err := rows.Scan(&e.ID, &e.LoanID, &e.Kind, &e.Detail, &e.Timestamp); err != nil {
			return nil, translateDBError("list events", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError("list events", err)
	}
	return events, nil
}

func (r *RegistryRepository) CountByStatus(ctx context.Context) (map[registry.LoanStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM loans GROUP BY status`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	monitoring.RecordDBQuery("count_by_status", queryStatus(err), time.Since(start))
	if err != nil {
		return nil, translateDBError("count by status", err)
	}
	defer rows.Close()

	counts := make(map[registry.LoanStatus]int64)
	for rows.Next() {
		var status registry.LoanStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, translateDBError("count by status", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError("count by status", err)
	}
	return counts, nil
}

func (r *RegistryRepository) ConversionSamples(ctx context.Context) ([]registry.ConversionSample, error) {
	query := `SELECT c.loan_id, MIN(c.ts) AS first_call, MIN(p.ts) AS first_paid
		FROM call_logs c
		LEFT JOIN call_logs p ON p.loan_id = c.loan_id AND p.event = $1
		WHERE c.event = $2
		GROUP BY c.loan_id
		ORDER BY c.loan_id ASC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, registry.EventMarkedPaid, registry.EventCallInitiated)
	monitoring.RecordDBQuery("conversion_samples", queryStatus(err), time.Since(start))
	if err != nil {
		return nil, translateDBError("conversion samples", err)
	}
	defer rows.Close()

	samples := make([]registry.ConversionSample, 0)
	for rows.Next() {
		var s registry.ConversionSample
		if err := rows.Scan(&s.LoanID, &s.FirstCall, &s.FirstPaid); err != nil {
			return nil, translateDBError("conversion samples", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError("conversion samples", err)
	}
	return samples, nil
}

func (r *RegistryRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return translateDBError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return translateDBError("commit transaction", err)
	}
	return nil
}

func queryStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
