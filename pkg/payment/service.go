package payment

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"homezen/pkg/forms"
)

var (
	ErrNoFile          = errors.New("choose a bank statement to upload")
	ErrUnsupportedFile = errors.New("unsupported file type: upload a .csv, .xlsx or .xls statement")
)

var statementExts = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

type ServiceInterface interface {
	GetAll(ctx context.Context) ([]Payment, error)
	Create(ctx context.Context, p NewPayment) (*Payment, error)
	Edit(ctx context.Context, id string, p EditPayment) (*Payment, error)
	GetTransactions(ctx context.Context) ([]Transaction, error)
	Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetAll(ctx context.Context) ([]Payment, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Create(ctx context.Context, p NewPayment) (*Payment, error) {
	p.TenantID = strings.TrimSpace(p.TenantID)
	p.Reference = strings.TrimSpace(p.Reference)
	p.Date = strings.TrimSpace(p.Date)
	if err := forms.Validate(&p); err != nil {
		return nil, err
	}
	return s.Repo.Create(ctx, p)
}

func (s *Service) Edit(ctx context.Context, id string, p EditPayment) (*Payment, error) {
	p.Reference = strings.TrimSpace(p.Reference)
	p.Status = strings.ToLower(strings.TrimSpace(p.Status))
	if err := forms.Validate(&p); err != nil {
		return nil, err
	}
	return s.Repo.Edit(ctx, id, p)
}

func (s *Service) GetTransactions(ctx context.Context) ([]Transaction, error) {
	return s.Repo.GetTransactions(ctx)
}

// Upload forwards a bank statement for reconciliation. Only spreadsheet
// and csv statements are sent.
func (s *Service) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	if err := CheckStatement(filename); err != nil {
		return nil, err
	}
	return s.Repo.Upload(ctx, filepath.Base(filename), content)
}

func CheckStatement(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return ErrNoFile
	}
	if !statementExts[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedFile
	}
	return nil
}

// Totals summarises the payments ledger.
type Totals struct {
	Received   float64
	Reconciled int
	Pending    int
}

func Summarize(payments []Payment) Totals {
	var t Totals
	for _, p := range payments {
		t.Received += p.Amount
		if p.Reconciled() {
			t.Reconciled++
		} else {
			t.Pending++
		}
	}
	return t
}

func Unmatched(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Matched {
			out = append(out, tx)
		}
	}
	return out
}

// ForTenant keeps the payments made by one tenant.
func ForTenant(payments []Payment, tenantID string) []Payment {
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if p.TenantID.String() == tenantID {
			out = append(out, p)
		}
	}
	return out
}
