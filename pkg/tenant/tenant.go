package tenant

import (
	"context"
	"strings"

	"homezen/pkg/apiclient"
)

type Tenant struct {
	ID           apiclient.ID `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Tel          string       `json:"tel"`
	NationalID   string       `json:"national_id"`
	HouseID      apiclient.ID `json:"house_id,omitempty"`
	HouseNumber  string       `json:"house_number,omitempty"`
	PropertyName string       `json:"property_name,omitempty"`
	Status       string       `json:"status,omitempty"`
}

// Matches reports whether the tenant's name or house number contains
// query, ignoring case.
func (t Tenant) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.HouseNumber), q)
}

type NewTenant struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Tel        string `json:"tel" label:"phone number" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	House      string `json:"hse" label:"house" validate:"required"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Tenant, error)
	Create(ctx context.Context, propertyID string, t NewTenant) (*Tenant, error)
}
