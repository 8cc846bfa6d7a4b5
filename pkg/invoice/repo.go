package invoice

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

func (r *APIRepo) GetRent(ctx context.Context) ([]RentInvoice, error) {
	var out []RentInvoice
	if err := r.API.Get(ctx, "/invoices/rent/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) GetMaintenance(ctx context.Context) ([]MaintenanceInvoice, error) {
	var out []MaintenanceInvoice
	if err := r.API.Get(ctx, "/invoices/maintenance/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) GenerateRent(ctx context.Context, unitID string, req GenerateRent) (*RentInvoice, error) {
	var out RentInvoice
	if err := r.API.Post(ctx, apiclient.Path("/invoices/generate/rent/%s", unitID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) GenerateMaintenance(ctx context.Context, req GenerateMaintenance) (*MaintenanceInvoice, error) {
	var out MaintenanceInvoice
	if err := r.API.Post(ctx, "/invoices/generate/maintenance/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) EditMaintenance(ctx context.Context, id string, req EditMaintenance) (*MaintenanceInvoice, error) {
	var out MaintenanceInvoice
	if err := r.API.Patch(ctx, apiclient.Path("/invoices/maintenance/%s/edit", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
