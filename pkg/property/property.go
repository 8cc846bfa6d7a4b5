package property

import (
	"context"

	"homezen/pkg/apiclient"
)

const StatusVacant = "VACANT"

type Property struct {
	ID      apiclient.ID `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address"`
}

// Unit is a rentable house inside a property.
type Unit struct {
	ID          apiclient.ID `json:"id"`
	PropertyID  apiclient.ID `json:"property_id,omitempty"`
	Number      string       `json:"number"`
	Rent        float64      `json:"rent"`
	Deposit     float64      `json:"deposit"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	TenantID    apiclient.ID `json:"tenant_id,omitempty"`
}

func (u Unit) Vacant() bool {
	return u.Status == StatusVacant
}

type NewProperty struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type NewUnit struct {
	Number      string  `json:"number" label:"house number" validate:"required"`
	Rent        float64 `json:"rent" validate:"gt=0"`
	Deposit     float64 `json:"deposit" validate:"gte=0"`
	Description string  `json:"description"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Property, error)
	Create(ctx context.Context, p NewProperty) (*Property, error)
	GetUnits(ctx context.Context, propertyID string) ([]Unit, error)
	CreateUnit(ctx context.Context, propertyID string, u NewUnit) (*Unit, error)
	GetLandlordUnits(ctx context.Context) ([]Unit, error)
}
