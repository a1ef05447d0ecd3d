package domain

import "time"

// User models an account that can place orders.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal returns the identity the user acts as once authenticated.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}

// Principal is the authenticated caller of an operation. The zero value is
// an anonymous caller.
type Principal struct {
	UserID   string
	Username string
	IsStaff  bool
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.UserID != ""
}
