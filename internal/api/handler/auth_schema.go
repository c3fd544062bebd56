package handler

import (
	"github.com/codedocs/snippets-api/internal/core/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// detailResponse mirrors the envelope browser clients already consume:
// a human-readable detail line plus optional payload fields.
type detailResponse struct {
	Detail string `json:"detail"`
}

type registerResponse struct {
	Detail string       `json:"detail"`
	User   *domain.User `json:"user"`
}

type loginResponse struct {
	Detail               string       `json:"detail"`
	User                 *domain.User `json:"user"`
	AccessTokenExpiresIn int64        `json:"access_token_expires_in"`
}

type refreshResponse struct {
	Detail               string `json:"detail"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
