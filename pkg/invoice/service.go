package invoice

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"homezen/pkg/forms"
)

var ErrUnknownKind = errors.New("unknown invoice type")

type ServiceInterface interface {
	GetRent(ctx context.Context) ([]RentInvoice, error)
	GetMaintenance(ctx context.Context) ([]MaintenanceInvoice, error)
	Generate(ctx context.Context, w Wizard) (*Generated, error)
	EditMaintenance(ctx context.Context, id string, req EditMaintenance) (*MaintenanceInvoice, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

// Generated is whichever invoice the wizard produced.
type Generated struct {
	Rent        *RentInvoice
	Maintenance *MaintenanceInvoice
}

func (s *Service) GetRent(ctx context.Context) ([]RentInvoice, error) {
	return s.Repo.GetRent(ctx)
}

func (s *Service) GetMaintenance(ctx context.Context) ([]MaintenanceInvoice, error) {
	return s.Repo.GetMaintenance(ctx)
}

func (s *Service) Generate(ctx context.Context, w Wizard) (*Generated, error) {
	if err := w.Complete(); err != nil {
		return nil, err
	}

	switch w.Kind {
	case KindRent:
		inv, err := s.Repo.GenerateRent(ctx, w.UnitID, GenerateRent{DateDue: w.DateDue})
		if err != nil {
			return nil, err
		}
		return &Generated{Rent: inv}, nil
	case KindMaintenance:
		inv, err := s.Repo.GenerateMaintenance(ctx, GenerateMaintenance{
			TenantID:    w.TenantID,
			Description: w.Description,
			TotalAmount: w.AmountValue(),
			DateDue:     w.DateDue,
		})
		if err != nil {
			return nil, err
		}
		return &Generated{Maintenance: inv}, nil
	}
	return nil, ErrUnknownKind
}

func (s *Service) EditMaintenance(ctx context.Context, id string, req EditMaintenance) (*MaintenanceInvoice, error) {
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if err := forms.Validate(&req); err != nil {
		return nil, err
	}
	return s.Repo.EditMaintenance(ctx, id, req)
}

// Balance is what one tenant still owes.
type Balance struct {
	TenantID    string
	TenantName  string
	Rent        float64
	Maintenance float64
}

func (b Balance) Total() float64 {
	return b.Rent + b.Maintenance
}

// Balances sums, per tenant, unpaid rent invoices that are not yet due
// and maintenance invoices that are not paid. Rent with an unreadable
// due date is left out. Tenants are ordered by name.
func Balances(rent []RentInvoice, maintenance []MaintenanceInvoice, now time.Time) []Balance {
	byTenant := make(map[string]*Balance)
	get := func(id, name string) *Balance {
		b, ok := byTenant[id]
		if !ok {
			b = &Balance{TenantID: id}
			byTenant[id] = b
		}
		if b.TenantName == "" {
			b.TenantName = name
		}
		return b
	}

	for _, inv := range rent {
		if inv.Paid() {
			continue
		}
		due, ok := ParseDate(inv.DateDue)
		if !ok || !due.After(now) {
			continue
		}
		get(inv.TenantID.String(), inv.TenantName).Rent += inv.Amount
	}
	for _, inv := range maintenance {
		if inv.Paid() {
			continue
		}
		get(inv.TenantID.String(), inv.TenantName).Maintenance += inv.TotalAmount
	}

	out := make([]Balance, 0, len(byTenant))
	for _, b := range byTenant {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TenantName != out[j].TenantName {
			return out[i].TenantName < out[j].TenantName
		}
		return out[i].TenantID < out[j].TenantID
	})
	return out
}

// BalanceFor returns the balance of a single tenant, zero when nothing
// is owed.
func BalanceFor(tenantID string, rent []RentInvoice, maintenance []MaintenanceInvoice, now time.Time) Balance {
	for _, b := range Balances(rent, maintenance, now) {
		if b.TenantID == tenantID {
			return b
		}
	}
	return Balance{TenantID: tenantID}
}
