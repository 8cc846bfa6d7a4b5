package tenant

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

func (r *APIRepo) GetAll(ctx context.Context) ([]Tenant, error) {
	var out []Tenant
	if err := r.API.Get(ctx, "/tenants/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) Create(ctx context.Context, propertyID string, t NewTenant) (*Tenant, error) {
	var out Tenant
	if err := r.API.Post(ctx, apiclient.Path("/tenants/create/properties/%s", propertyID), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
