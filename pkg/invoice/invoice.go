package invoice

import (
	"context"
	"strings"
	"time"

	"homezen/pkg/apiclient"
)

const (
	StatusPaid   = "PAID"
	StatusUnpaid = "UNPAID"
)

type RentInvoice struct {
	ID         apiclient.ID `json:"id"`
	TenantID   apiclient.ID `json:"tenant_id"`
	TenantName string       `json:"tenant_name,omitempty"`
	UnitID     apiclient.ID `json:"house_id,omitempty"`
	Amount     float64      `json:"amount"`
	Status     string       `json:"status"`
	DateIssued string       `json:"date_issued,omitempty"`
	DateDue    string       `json:"date_due"`
}

func (i RentInvoice) Paid() bool {
	return strings.EqualFold(i.Status, StatusPaid)
}

type MaintenanceInvoice struct {
	ID          apiclient.ID `json:"id"`
	TenantID    apiclient.ID `json:"tenant_id"`
	TenantName  string       `json:"tenant_name,omitempty"`
	Description string       `json:"description"`
	TotalAmount float64      `json:"total_amount"`
	Status      string       `json:"status"`
	DateDue     string       `json:"date_due,omitempty"`
}

func (i MaintenanceInvoice) Paid() bool {
	return strings.EqualFold(i.Status, StatusPaid)
}

type GenerateRent struct {
	DateDue string `json:"date_due"`
}

type GenerateMaintenance struct {
	TenantID    string  `json:"tenant_id"`
	Description string  `json:"description"`
	TotalAmount float64 `json:"total_amount"`
	DateDue     string  `json:"date_due"`
}

type EditMaintenance struct {
	Status      string  `json:"status" validate:"required,oneof=PAID UNPAID"`
	TotalAmount float64 `json:"total_amount,omitempty" label:"amount" validate:"gte=0"`
}

type Repository interface {
	GetRent(ctx context.Context) ([]RentInvoice, error)
	GetMaintenance(ctx context.Context) ([]MaintenanceInvoice, error)
	GenerateRent(ctx context.Context, unitID string, req GenerateRent) (*RentInvoice, error)
	GenerateMaintenance(ctx context.Context, req GenerateMaintenance) (*MaintenanceInvoice, error)
	EditMaintenance(ctx context.Context, id string, req EditMaintenance) (*MaintenanceInvoice, error)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate reads the date formats the backend is known to send.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
