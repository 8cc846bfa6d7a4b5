package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homezen/pkg/claims"
	"homezen/pkg/forms"
	"homezen/pkg/session"
)

var (
	ErrNoToken      = errors.New("login response carried no access token")
	ErrMissingReset = errors.New("this password reset link is invalid or missing its token")
)

type ServiceInterface interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Current(ctx context.Context) (*User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPassword) error
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

// Login exchanges credentials for a backend token and reads the session
// out of it. The token is not verified here; the backend checks it on
// every call.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	c := Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := forms.Validate(&c); err != nil {
		return nil, err
	}

	tok, err := s.Repo.Token(ctx, c)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, ErrNoToken
	}

	cl, err := claims.Decode(tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	sess := session.New(cl.Subject, cl.Role(), cl.ExpiresAt, tok.AccessToken)
	return &sess, nil
}

func (s *Service) Current(ctx context.Context) (*User, error) {
	return s.Repo.Current(ctx)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	req := ForgotPassword{Email: strings.TrimSpace(email)}
	if err := forms.Validate(&req); err != nil {
		return err
	}
	return s.Repo.ForgotPassword(ctx, req)
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPassword) error {
	if strings.TrimSpace(req.Token) == "" {
		return ErrMissingReset
	}
	if err := forms.Validate(&req); err != nil {
		return err
	}
	return s.Repo.ResetPassword(ctx, req)
}
