package domain

import (
	"errors"
	"time"
)

// LoanStatus enumerates lifecycle states for loans.
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

const (
	// MaxActiveLoans is the per-user ceiling of concurrently active loans.
	MaxActiveLoans = 3
	// LoanDurationDays is the fixed checkout period.
	LoanDurationDays = 15
)

// ErrAlreadyReturned is reported by MarkReturned when the loan has a return
// date already; the stored return date is never overwritten.
var ErrAlreadyReturned = errors.New("loan already returned")

// Loan is the aggregate owned by this service. It is created once, transitions
// to returned at most once, and is retained as history afterwards.
type Loan struct {
	ID         string
	UserID     string
	BookID     string
	StartDate  time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     LoanStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLoan builds an active loan starting today. The due date is start plus the
// fixed duration; AddDate keeps the arithmetic correct across month and year
// boundaries.
func NewLoan(userID, bookID string, today time.Time) *Loan {
	return &Loan{
		UserID:    userID,
		BookID:    bookID,
		StartDate: today,
		DueDate:   today.AddDate(0, 0, LoanDurationDays),
		Status:    LoanStatusActive,
	}
}

// MarkReturned closes the loan. Returns ErrAlreadyReturned when the loan is
// closed already.
func (l *Loan) MarkReturned(today time.Time) error {
	if l.ReturnDate != nil {
		return ErrAlreadyReturned
	}
	returned := today
	l.ReturnDate = &returned
	l.Status = LoanStatusReturned
	return nil
}

// IsActive reports whether the loan has not been returned yet.
func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

// IsOverdue reports whether an active loan is past its due date.
func (l *Loan) IsOverdue(today time.Time) bool {
	return l.IsActive() && today.After(l.DueDate)
}
