package workflow_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/loan-service/internal/domain"
	"github.com/spec-kit/loan-service/internal/ports"
)

// fakeUsers is an in-memory UserDirectory.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]domain.User)}
}

func (f *fakeUsers) add(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &user, nil
}

// fakeBooks is an in-memory BookCatalog that tracks the transition calls.
type fakeBooks struct {
	mu               sync.Mutex
	books            map[string]domain.Book
	getErr           error
	markLoanedErr    error
	markAvailableErr error
	loanedCalls      []string
	availableCalls   []string
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{books: make(map[string]domain.Book)}
}

func (f *fakeBooks) add(book domain.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books[book.ID] = book
}

func (f *fakeBooks) Get(_ context.Context, bookID string) (*domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	book, ok := f.books[bookID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &book, nil
}

func (f *fakeBooks) MarkLoaned(_ context.Context, bookID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markLoanedErr != nil {
		return f.markLoanedErr
	}
	book := f.books[bookID]
	book.Available = false
	f.books[bookID] = book
	f.loanedCalls = append(f.loanedCalls, bookID)
	return nil
}

func (f *fakeBooks) MarkAvailable(_ context.Context, bookID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markAvailableErr != nil {
		return f.markAvailableErr
	}
	book := f.books[bookID]
	book.Available = true
	f.books[bookID] = book
	f.availableCalls = append(f.availableCalls, bookID)
	return nil
}

// fakeLoanStore is an in-memory LoanStore. It hands out copies so stored
// state only changes through Save/Update, like a real store.
type fakeLoanStore struct {
	mu        sync.Mutex
	loans     map[string]domain.Loan
	saveErr   error
	updateErr error
	deleteErr error
	findErr   error
	deleted   []string
}

func newFakeLoanStore() *fakeLoanStore {
	return &fakeLoanStore{loans: make(map[string]domain.Loan)}
}

func (f *fakeLoanStore) Save(_ context.Context, loan *domain.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	loan.ID = uuid.NewString()
	f.loans[loan.ID] = *loan
	return nil
}

func (f *fakeLoanStore) FindByID(_ context.Context, loanID string) (*domain.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	loan, ok := f.loans[loanID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &loan, nil
}

func (f *fakeLoanStore) FindActiveByUser(_ context.Context, userID string) ([]domain.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	active := []domain.Loan{}
	for _, loan := range f.loans {
		if loan.UserID == userID && loan.ReturnDate == nil {
			active = append(active, loan)
		}
	}
	return active, nil
}

func (f *fakeLoanStore) ListAllActive(_ context.Context) ([]domain.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active := []domain.Loan{}
	for _, loan := range f.loans {
		if loan.ReturnDate == nil {
			active = append(active, loan)
		}
	}
	return active, nil
}

func (f *fakeLoanStore) Update(_ context.Context, loan *domain.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.loans[loan.ID]; !ok {
		return ports.ErrNotFound
	}
	f.loans[loan.ID] = *loan
	return nil
}

func (f *fakeLoanStore) Delete(_ context.Context, loanID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.loans[loanID]; !ok {
		return ports.ErrNotFound
	}
	delete(f.loans, loanID)
	f.deleted = append(f.deleted, loanID)
	return nil
}
