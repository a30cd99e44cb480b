package domain

import "time"

// User is the directory record for anyone who can authenticate. IsStaff grants
// the staff capability (reopening closed tickets, reading internal comments);
// IsAdmin additionally permits destructive deletes.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsStaff      bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasStaffCapability reports whether the user may perform staff-gated actions.
func (u *User) HasStaffCapability() bool {
	return u.IsStaff || u.IsAdmin
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
