package domain

// Book is the read-only view of a catalog entry owned by the book service.
type Book struct {
	ID        string
	Available bool
	Deleted   bool
}

// CanBeLoaned reports whether the book can back a new loan. A deleted book is
// never loanable; the availability flag is authoritative only for live books.
func (b *Book) CanBeLoaned() (bool, string) {
	if b.Deleted {
		return false, "book is deleted"
	}
	if !b.Available {
		return false, "book is not available"
	}
	return true, ""
}
