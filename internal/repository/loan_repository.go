package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/loan-service/internal/domain"
	"github.com/spec-kit/loan-service/internal/ports"
)

// ErrLoanLimit is returned by Save when inserting the loan would exceed the
// per-user active loan ceiling. The store enforces the limit inside its own
// transaction so the invariant holds even for callers that bypass the
// coordinator's per-user lock.
var ErrLoanLimit = errors.New("active loan limit reached")

const loanColumns = `id, user_id, book_id, start_date, due_date, return_date, status, created_at, updated_at`

type loanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository instantiates the pgx-backed LoanStore.
func NewLoanRepository(pool *pgxpool.Pool) ports.LoanStore {
	return &loanRepository{pool: pool}
}

// Save inserts the loan and assigns its ID. The per-user advisory lock and
// re-count make the limit check atomic with the insert under concurrent
// writers.
func (r *loanRepository) Save(ctx context.Context, loan *domain.Loan) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, loan.UserID); err != nil {
		return err
	}

	var active int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE user_id=$1 AND status=$2`,
		loan.UserID, domain.LoanStatusActive,
	).Scan(&active); err != nil {
		return err
	}
	if active >= domain.MaxActiveLoans {
		return ErrLoanLimit
	}

	const query = `
        INSERT INTO loans (user_id, book_id, start_date, due_date, return_date, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		loan.UserID,
		loan.BookID,
		loan.StartDate,
		loan.DueDate,
		loan.ReturnDate,
		loan.Status,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *loanRepository) FindByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id=$1`
	var loan domain.Loan
	if err := r.pool.QueryRow(ctx, query, loanID).Scan(
		&loan.ID,
		&loan.UserID,
		&loan.BookID,
		&loan.StartDate,
		&loan.DueDate,
		&loan.ReturnDate,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindActiveByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans
        WHERE user_id=$1 AND status=$2 ORDER BY start_date, id`
	rows, err := r.pool.Query(ctx, query, userID, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *loanRepository) ListAllActive(ctx context.Context) ([]domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans
        WHERE status=$1 ORDER BY start_date, id`
	rows, err := r.pool.Query(ctx, query, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

// Update persists the return transition. Only the mutable columns change;
// identity and start/due dates are immutable after creation.
func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	const query = `UPDATE loans SET return_date=$1, status=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, loan.ReturnDate, loan.Status, loan.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, loanID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id=$1`, loanID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	loans := []domain.Loan{}
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.UserID,
			&loan.BookID,
			&loan.StartDate,
			&loan.DueDate,
			&loan.ReturnDate,
			&loan.Status,
			&loan.CreatedAt,
			&loan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}
