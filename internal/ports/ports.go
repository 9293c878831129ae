// Package ports defines the capability contracts the loan workflow depends
// on. The coordinator only ever sees these interfaces; transport and storage
// details live in the adapters implementing them.
package ports

import (
	"context"
	"errors"

	"github.com/spec-kit/loan-service/internal/domain"
)

// ErrNotFound is returned by any port when the referenced entity does not
// exist. Adapters must map their native miss (HTTP 404, pgx.ErrNoRows) to
// this sentinel so the coordinator can tell a missing reference apart from an
// unreachable dependency.
var ErrNotFound = errors.New("not found")

// UserDirectory reads member records owned by the user service.
type UserDirectory interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// BookCatalog reads catalog entries owned by the book service and drives the
// two idempotent availability transitions.
type BookCatalog interface {
	Get(ctx context.Context, bookID string) (*domain.Book, error)
	MarkLoaned(ctx context.Context, bookID string) error
	MarkAvailable(ctx context.Context, bookID string) error
}

// LoanStore persists the locally-owned loan aggregate. Save assigns the ID on
// first insert. Delete exists solely to back the create-side compensation.
type LoanStore interface {
	Save(ctx context.Context, loan *domain.Loan) error
	FindByID(ctx context.Context, loanID string) (*domain.Loan, error)
	FindActiveByUser(ctx context.Context, userID string) ([]domain.Loan, error)
	ListAllActive(ctx context.Context) ([]domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, loanID string) error
}
