package domain

// User is the read-only view of a library member owned by the user service.
// The workflow never persists users; an instance is only valid for the
// duration of the call that fetched it.
type User struct {
	ID        string
	Active    bool
	Suspended bool
}

// CanRequestLoan reports whether the user may open a new loan. Eligibility
// depends only on the activity and suspension flags.
func (u *User) CanRequestLoan() (bool, string) {
	if !u.Active {
		return false, "user is not active"
	}
	if u.Suspended {
		return false, "user is suspended"
	}
	return true, ""
}
