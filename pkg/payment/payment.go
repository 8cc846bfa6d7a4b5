package payment

import (
	"context"
	"io"
	"strings"

	"homezen/pkg/apiclient"
)

const (
	StatusReconciled = "reconciled"
	StatusPending    = "pending"
)

var Methods = []string{"M-Pesa", "Bank Transfer", "Cash", "Cheque"}

type Payment struct {
	ID         apiclient.ID `json:"id"`
	TenantID   apiclient.ID `json:"tenant_id"`
	TenantName string       `json:"tenant_name,omitempty"`
	Amount     float64      `json:"amount"`
	Method     string       `json:"method"`
	Reference  string       `json:"reference"`
	Date       string       `json:"date"`
	Status     string       `json:"status"`
}

func (p Payment) Reconciled() bool {
	return strings.EqualFold(p.Status, StatusReconciled)
}

type NewPayment struct {
	TenantID  string  `json:"tenant_id" label:"tenant" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"method" validate:"required,oneof=M-Pesa 'Bank Transfer' Cash Cheque"`
	Reference string  `json:"reference" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
}

type EditPayment struct {
	Amount    float64 `json:"amount" validate:"gt=0"`
	Reference string  `json:"reference" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=reconciled pending"`
}

// Transaction is one line of an uploaded bank statement.
type Transaction struct {
	ID          apiclient.ID `json:"id"`
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	Matched     bool         `json:"matched"`
}

type UploadResult struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Matched  int    `json:"matched"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Payment, error)
	Create(ctx context.Context, p NewPayment) (*Payment, error)
	Edit(ctx context.Context, id string, p EditPayment) (*Payment, error)
	GetTransactions(ctx context.Context) ([]Transaction, error)
	Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error)
}
