package user

import (
	"context"

	"homezen/pkg/apiclient"
)

type APIRepo struct {
	API *apiclient.Client
}

func NewAPIRepo(api *apiclient.Client) *APIRepo {
	return &APIRepo{API: api}
}

func (r *APIRepo) Token(ctx context.Context, c Credentials) (*Token, error) {
	var out Token
	if err := r.API.Post(ctx, "/token", c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) Current(ctx context.Context) (*User, error) {
	var out User
	if err := r.API.Get(ctx, "/users/current", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) ForgotPassword(ctx context.Context, req ForgotPassword) error {
	return r.API.Post(ctx, "/users/forgot-password", req, nil)
}

func (r *APIRepo) ResetPassword(ctx context.Context, req ResetPassword) error {
	return r.API.Post(ctx, "/users/reset-password", req, nil)
}
