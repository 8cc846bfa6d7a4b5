package property

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

func (r *APIRepo) GetAll(ctx context.Context) ([]Property, error) {
	var out []Property
	if err := r.API.Get(ctx, "/properties/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) Create(ctx context.Context, p NewProperty) (*Property, error) {
	var out Property
	if err := r.API.Post(ctx, "/properties/create", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) GetUnits(ctx context.Context, propertyID string) ([]Unit, error) {
	var out []Unit
	if err := r.API.Get(ctx, apiclient.Path("/properties/%s/houses/all", propertyID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) CreateUnit(ctx context.Context, propertyID string, u NewUnit) (*Unit, error) {
	var out Unit
	if err := r.API.Post(ctx, apiclient.Path("/properties/%s/houses/create", propertyID), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) GetLandlordUnits(ctx context.Context) ([]Unit, error) {
	var out []Unit
	if err := r.API.Get(ctx, "/landlords/units/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}
