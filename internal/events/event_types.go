package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoanCreated    EventType = "loan_created"
	EventLoanReturned   EventType = "loan_returned"
	EventLoanRolledBack EventType = "loan_rolled_back"
	EventBookSyncFailed EventType = "book_sync_failed"
)

// Event represents a workflow event emitted by the coordinator.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LoanID    string      `json:"loan_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoanCreatedPayload payload.
type LoanCreatedPayload struct {
	UserID  string    `json:"user_id"`
	BookID  string    `json:"book_id"`
	DueDate time.Time `json:"due_date"`
}

// LoanReturnedPayload payload.
type LoanReturnedPayload struct {
	UserID     string    `json:"user_id"`
	BookID     string    `json:"book_id"`
	ReturnDate time.Time `json:"return_date"`
}

// LoanRolledBackPayload records a create-side compensation.
type LoanRolledBackPayload struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`
	Cause  string `json:"cause"`
}

// BookSyncFailedPayload records a book-availability mismatch left behind by a
// partial-success return; a reconciler repairs it out of band.
type BookSyncFailedPayload struct {
	BookID    string `json:"book_id"`
	UserID    string `json:"user_id"`
	Operation string `json:"operation"`
	Cause     string `json:"cause"`
}
