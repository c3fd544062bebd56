package domain

import (
	"errors"
	"time"
)

// ErrInvalidToken is the single failure surfaced for every token
// problem: bad signature, expiry, malformed input, or a blacklisted
// refresh token. Callers cannot tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// TokenPair is one access/refresh issuance.
type TokenPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
}

// AccessClaims are the identity claims carried by a valid access token.
type AccessClaims struct {
	UserID   string
	Username string
	Role     Role
}
