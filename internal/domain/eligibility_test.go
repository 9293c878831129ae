package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/loan-service/internal/domain"
)

func Test_User_CanRequestLoan(t *testing.T) {
	tests := []struct {
		name   string
		user   domain.User
		ok     bool
		reason string
	}{
		{name: "active_user", user: domain.User{ID: "u1", Active: true}, ok: true},
		{name: "inactive_user", user: domain.User{ID: "u1"}, ok: false, reason: "user is not active"},
		{name: "suspended_user", user: domain.User{ID: "u1", Active: true, Suspended: true}, ok: false, reason: "user is suspended"},
		{name: "inactive_and_suspended", user: domain.User{ID: "u1", Suspended: true}, ok: false, reason: "user is not active"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := tc.user.CanRequestLoan()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func Test_Book_CanBeLoaned(t *testing.T) {
	tests := []struct {
		name   string
		book   domain.Book
		ok     bool
		reason string
	}{
		{name: "available_book", book: domain.Book{ID: "b1", Available: true}, ok: true},
		{name: "unavailable_book", book: domain.Book{ID: "b1"}, ok: false, reason: "book is not available"},
		{name: "deleted_book", book: domain.Book{ID: "b1", Deleted: true}, ok: false, reason: "book is deleted"},
		{name: "deleted_wins_over_available", book: domain.Book{ID: "b1", Available: true, Deleted: true}, ok: false, reason: "book is deleted"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := tc.book.CanBeLoaned()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}
