package user

import (
	"context"

	"homezen/pkg/apiclient"
)

type User struct {
	ID     apiclient.ID `json:"id"`
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Tel    string       `json:"tel"`
	RoleID int          `json:"role_id,omitempty"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPassword struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPassword struct {
	Token           string `json:"secret_token" label:"reset token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" label:"password confirmation" validate:"required,eqfield=NewPassword"`
}

// Token is the answer of POST /token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Repository interface {
	Token(ctx context.Context, c Credentials) (*Token, error)
	Current(ctx context.Context) (*User, error)
	ForgotPassword(ctx context.Context, req ForgotPassword) error
	ResetPassword(ctx context.Context, req ResetPassword) error
}
