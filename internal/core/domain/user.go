package domain

import (
	"errors"
	"time"
)

// Role is the closed set of roles a user can hold. Guards compare
// against these constants, never raw strings from the wire.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a stored string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrSelfDelete         = errors.New("cannot delete yourself")
	ErrSuperuserDelete    = errors.New("cannot delete superuser")
	ErrForbidden          = errors.New("access forbidden")
)

// User models an account in the credential store.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"is_active"`
	Superuser    bool       `json:"-"`
	LastLogin    *time.Time `json:"last_login"`
	JoinedAt     time.Time  `json:"date_joined"`
}

// OnlineUser is the per-user view carried in presence pushes.
type OnlineUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
