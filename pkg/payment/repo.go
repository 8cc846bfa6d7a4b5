package payment

import (
	"context"
	"io"

	"homezen/pkg/apiclient"
)

type APIRepo struct {
	API *apiclient.Client
}

func NewAPIRepo(api *apiclient.Client) *APIRepo {
	return &APIRepo{API: api}
}

func (r *APIRepo) GetAll(ctx context.Context) ([]Payment, error) {
	var out []Payment
	if err := r.API.Get(ctx, "/payments/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) Create(ctx context.Context, p NewPayment) (*Payment, error) {
	var out Payment
	if err := r.API.Post(ctx, "/process/payment", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) Edit(ctx context.Context, id string, p EditPayment) (*Payment, error) {
	var out Payment
	if err := r.API.Patch(ctx, apiclient.Path("/edit/payment/%s", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepo) GetTransactions(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	if err := r.API.Get(ctx, "/transactions/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepo) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	var out UploadResult
	if err := r.API.Upload(ctx, "/transactions/upload", "file", filename, content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
