package domain

import "time"

// Role classifies storefront accounts.
type Role string

const (
	RoleBuyer         Role = "Buyer"
	RoleSeller        Role = "Seller"
	RolePlatformAdmin Role = "PlatformAdmin"
)

// ParseRole validates a role string supplied by a client.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RolePlatformAdmin:
		return Role(s), true
	}
	return "", false
}

// SelfAssignable reports whether a new account may register with this role.
// PlatformAdmin accounts are provisioned out of band.
func (r Role) SelfAssignable() bool {
	return r == RoleBuyer || r == RoleSeller
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for storefront accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the read-only identity view handed to clients.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Profile projects the client-visible subset of the account.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
