// Package workflow implements the loan saga. The coordinator owns all step
// ordering and compensation decisions; the ports it drives are dumb transport.
//
// There is no distributed transaction between the loan store and the book
// service. Consistency of the remote availability flag is maintained only by
// the compensation rules in CreateLoan and the reconciliation event emitted by
// ReturnLoan. This is a deliberate weak-consistency boundary.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/loan-service/internal/domain"
	"github.com/spec-kit/loan-service/internal/events"
	"github.com/spec-kit/loan-service/internal/lock"
	"github.com/spec-kit/loan-service/internal/ports"
)

// Coordinator drives loan creation and return against the three capability
// ports. It is constructed once with its dependencies and is stateless across
// calls, so a single instance serves all requests.
type Coordinator struct {
	users      ports.UserDirectory
	books      ports.BookCatalog
	loans      ports.LoanStore
	locker     lock.Locker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies bundles the coordinator's collaborators.
type Dependencies struct {
	UserDirectory ports.UserDirectory
	BookCatalog   ports.BookCatalog
	LoanStore     ports.LoanStore
	Locker        lock.Locker
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// ReturnResult is the tagged outcome of ReturnLoan. BookSyncPending marks the
// partial-success case: the loan is durably returned but the remote book flag
// was not corrected and awaits out-of-band reconciliation.
type ReturnResult struct {
	Loan            *domain.Loan
	BookSyncPending bool
}

// NewCoordinator constructs the coordinator.
func NewCoordinator(deps Dependencies) *Coordinator {
	c := &Coordinator{
		users:      deps.UserDirectory,
		books:      deps.BookCatalog,
		loans:      deps.LoanStore,
		locker:     deps.Locker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if c.locker == nil {
		c.locker = lock.NewMemoryLocker()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// CreateLoan runs the checkout saga: validate the user, enforce the active
// loan limit, validate the book, persist the loan, then flip the remote book
// flag. The durable save happens before the remote flip because the local
// write is the cheap one to compensate; a flip failure rolls the loan back.
func (c *Coordinator) CreateLoan(ctx context.Context, userID, bookID string) (*domain.Loan, error) {
	user, err := c.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errUserNotFound(userID)
		}
		return nil, errUpstreamUnavailable("user", err)
	}

	if ok, reason := user.CanRequestLoan(); !ok {
		return nil, errUserIneligible(reason)
	}

	// The count check and the save must be atomic per user; two concurrent
	// creates must not both observe count=2 and proceed.
	release, err := c.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, errPersistence(err)
	}
	defer release()

	active, err := c.loans.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errPersistence(err)
	}
	if len(active) >= domain.MaxActiveLoans {
		return nil, errLoanLimitExceeded(userID, domain.MaxActiveLoans)
	}

	book, err := c.books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errBookNotFound(bookID)
		}
		return nil, errUpstreamUnavailable("book", err)
	}

	if ok, reason := book.CanBeLoaned(); !ok {
		return nil, errBookUnavailable(reason)
	}

	loan := domain.NewLoan(userID, bookID, c.now())
	if err := c.loans.Save(ctx, loan); err != nil {
		// Nothing external has changed yet; abort without compensation.
		return nil, errPersistence(err)
	}

	if err := c.books.MarkLoaned(ctx, bookID); err != nil {
		c.rollbackCreate(ctx, loan, err)
		return nil, errBookUpdateFailed(bookID, err)
	}

	c.publishEvent(ctx, events.Event{
		Type:   events.EventLoanCreated,
		LoanID: loan.ID,
		Payload: events.LoanCreatedPayload{
			UserID:  loan.UserID,
			BookID:  loan.BookID,
			DueDate: loan.DueDate,
		},
	})
	return loan, nil
}

// ReturnLoan closes a loan and best-effort restores the remote book flag.
// Once the return is durable it is never reverted; a failed flag restore is
// reported as partial success and handed to reconciliation.
func (c *Coordinator) ReturnLoan(ctx context.Context, loanID string) (*ReturnResult, error) {
	loan, err := c.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errLoanNotFound(loanID)
		}
		return nil, errPersistence(err)
	}

	if err := loan.MarkReturned(c.now()); err != nil {
		if errors.Is(err, domain.ErrAlreadyReturned) {
			return nil, errLoanAlreadyReturned(loanID)
		}
		return nil, errPersistence(err)
	}

	if err := c.loans.Update(ctx, loan); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errLoanNotFound(loanID)
		}
		return nil, errPersistence(err)
	}

	result := &ReturnResult{Loan: loan}

	if err := c.books.MarkAvailable(ctx, loan.BookID); err != nil {
		c.logger.Warn("book availability sync failed after return",
			zap.String("loan_id", loan.ID),
			zap.String("book_id", loan.BookID),
			zap.Error(err))
		result.BookSyncPending = true
		c.publishEvent(ctx, events.Event{
			Type:   events.EventBookSyncFailed,
			LoanID: loan.ID,
			Payload: events.BookSyncFailedPayload{
				BookID:    loan.BookID,
				UserID:    loan.UserID,
				Operation: "mark_available",
				Cause:     err.Error(),
			},
		})
		return result, nil
	}

	c.publishEvent(ctx, events.Event{
		Type:   events.EventLoanReturned,
		LoanID: loan.ID,
		Payload: events.LoanReturnedPayload{
			UserID:     loan.UserID,
			BookID:     loan.BookID,
			ReturnDate: *loan.ReturnDate,
		},
	})
	return result, nil
}

// GetLoan fetches a single loan.
func (c *Coordinator) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := c.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errLoanNotFound(loanID)
		}
		return nil, errPersistence(err)
	}
	return loan, nil
}

// ListActiveLoansForUser lists a user's open loans.
func (c *Coordinator) ListActiveLoansForUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	loans, err := c.loans.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errPersistence(err)
	}
	return loans, nil
}

// ListAllActiveLoans lists every open loan.
func (c *Coordinator) ListAllActiveLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := c.loans.ListAllActive(ctx)
	if err != nil {
		return nil, errPersistence(err)
	}
	return loans, nil
}

// rollbackCreate deletes the loan saved by a CreateLoan whose remote book flip
// failed. If the delete itself fails the orphan is surfaced to reconciliation
// instead of being silently kept.
func (c *Coordinator) rollbackCreate(ctx context.Context, loan *domain.Loan, cause error) {
	if err := c.loans.Delete(ctx, loan.ID); err != nil {
		c.logger.Error("loan rollback failed, orphaned loan needs reconciliation",
			zap.String("loan_id", loan.ID),
			zap.String("book_id", loan.BookID),
			zap.Error(err))
		c.publishEvent(ctx, events.Event{
			Type:   events.EventBookSyncFailed,
			LoanID: loan.ID,
			Payload: events.BookSyncFailedPayload{
				BookID:    loan.BookID,
				UserID:    loan.UserID,
				Operation: "rollback_delete",
				Cause:     err.Error(),
			},
		})
		return
	}
	c.publishEvent(ctx, events.Event{
		Type:   events.EventLoanRolledBack,
		LoanID: loan.ID,
		Payload: events.LoanRolledBackPayload{
			UserID: loan.UserID,
			BookID: loan.BookID,
			Cause:  cause.Error(),
		},
	})
}

func (c *Coordinator) publishEvent(ctx context.Context, event events.Event) {
	if c.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	_ = c.dispatcher.Publish(ctx, event)
}
