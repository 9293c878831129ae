package workflow

import "fmt"

// ErrorKind tags every failure the coordinator can report. The entry surface
// translates kinds to protocol codes; nothing else escapes the workflow.
type ErrorKind string

const (
	KindUserNotFound        ErrorKind = "USER_NOT_FOUND"
	KindBookNotFound        ErrorKind = "BOOK_NOT_FOUND"
	KindLoanNotFound        ErrorKind = "LOAN_NOT_FOUND"
	KindUserIneligible      ErrorKind = "USER_INELIGIBLE"
	KindBookUnavailable     ErrorKind = "BOOK_UNAVAILABLE"
	KindLoanLimitExceeded   ErrorKind = "LOAN_LIMIT_EXCEEDED"
	KindLoanAlreadyReturned ErrorKind = "LOAN_ALREADY_RETURNED"
	KindUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindPersistenceError    ErrorKind = "PERSISTENCE_ERROR"
	KindBookUpdateFailed    ErrorKind = "BOOK_UPDATE_FAILED"
)

// Error is the tagged result returned for every non-success outcome.
type Error struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the workflow error kind, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	if wfErr, ok := err.(*Error); ok {
		return wfErr.Kind
	}
	return ""
}

func errUserNotFound(userID string) *Error {
	return &Error{Kind: KindUserNotFound, Reason: fmt.Sprintf("user %s not found", userID)}
}

func errBookNotFound(bookID string) *Error {
	return &Error{Kind: KindBookNotFound, Reason: fmt.Sprintf("book %s not found", bookID)}
}

func errLoanNotFound(loanID string) *Error {
	return &Error{Kind: KindLoanNotFound, Reason: fmt.Sprintf("loan %s not found", loanID)}
}

func errUserIneligible(reason string) *Error {
	return &Error{Kind: KindUserIneligible, Reason: reason}
}

func errBookUnavailable(reason string) *Error {
	return &Error{Kind: KindBookUnavailable, Reason: reason}
}

func errLoanLimitExceeded(userID string, limit int) *Error {
	return &Error{
		Kind:   KindLoanLimitExceeded,
		Reason: fmt.Sprintf("user %s has reached the limit of %d active loans", userID, limit),
	}
}

func errLoanAlreadyReturned(loanID string) *Error {
	return &Error{Kind: KindLoanAlreadyReturned, Reason: fmt.Sprintf("loan %s already returned", loanID)}
}

func errUpstreamUnavailable(which string, err error) *Error {
	return &Error{
		Kind:   KindUpstreamUnavailable,
		Reason: fmt.Sprintf("%s service unavailable", which),
		Err:    err,
	}
}

func errPersistence(err error) *Error {
	return &Error{Kind: KindPersistenceError, Reason: "loan store failure", Err: err}
}

func errBookUpdateFailed(bookID string, err error) *Error {
	return &Error{
		Kind:   KindBookUpdateFailed,
		Reason: fmt.Sprintf("book %s state update failed", bookID),
		Err:    err,
	}
}
