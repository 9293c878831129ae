package dto

import (
	"time"

	"github.com/spec-kit/loan-service/internal/domain"
)

// CreateLoanRequest payload.
type CreateLoanRequest struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	BookID     string            `json:"book_id"`
	StartDate  time.Time         `json:"start_date"`
	DueDate    time.Time         `json:"due_date"`
	ReturnDate *time.Time        `json:"return_date,omitempty"`
	Status     domain.LoanStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Warning flags a partial-success outcome alongside the data payload.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FromLoan maps the domain aggregate to its response shape.
func FromLoan(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:         loan.ID,
		UserID:     loan.UserID,
		BookID:     loan.BookID,
		StartDate:  loan.StartDate,
		DueDate:    loan.DueDate,
		ReturnDate: loan.ReturnDate,
		Status:     loan.Status,
		CreatedAt:  loan.CreatedAt,
		UpdatedAt:  loan.UpdatedAt,
	}
}

// FromLoans maps a slice of loans.
func FromLoans(loans []domain.Loan) []LoanResponse {
	items := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		items = append(items, FromLoan(&loans[i]))
	}
	return items
}
