package maintenance

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

func (r *APIRepo) GetAll(ctx context.Context) ([]Request, error) {
	var out []Request
	if err := r.API.Get(ctx, "/maintenance/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) Create(ctx context.Context, req NewRequest) (*Request, error) {
	var out Request
	if err := r.API.Post(ctx, "/maintenance/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) UpdateStatus(ctx context.Context, id string, u StatusUpdate) (*Request, error) {
	var out Request
	if err := r.API.Patch(ctx, apiclient.Path("/maintenance/edit-status/%s", id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
