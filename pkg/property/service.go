package property

import (
	"context"
	"errors"
	"strings"

	"homezen/pkg/forms"
)

var ErrNoProperty = errors.New("no property selected")

type ServiceInterface interface {
	GetAll(ctx context.Context) ([]Property, error)
	Create(ctx context.Context, p NewProperty) (*Property, error)
	GetUnits(ctx context.Context, propertyID string) ([]Unit, error)
	GetVacantUnits(ctx context.Context, propertyID string) ([]Unit, error)
	CreateUnit(ctx context.Context, propertyID string, u NewUnit) (*Unit, error)
	GetLandlordUnits(ctx context.Context) ([]Unit, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetAll(ctx context.Context) ([]Property, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Create(ctx context.Context, p NewProperty) (*Property, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	if err := forms.Validate(&p); err != nil {
		return nil, err
	}
	return s.Repo.Create(ctx, p)
}

func (s *Service) GetUnits(ctx context.Context, propertyID string) ([]Unit, error) {
	if propertyID == "" {
		return nil, ErrNoProperty
	}
	return s.Repo.GetUnits(ctx, propertyID)
}

func (s *Service) GetVacantUnits(ctx context.Context, propertyID string) ([]Unit, error) {
	units, err := s.GetUnits(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	vacant := make([]Unit, 0, len(units))
	for _, u := range units {
		if u.Vacant() {
			vacant = append(vacant, u)
		}
	}
	return vacant, nil
}

func (s *Service) CreateUnit(ctx context.Context, propertyID string, u NewUnit) (*Unit, error) {
	if propertyID == "" {
		return nil, ErrNoProperty
	}
	u.Number = strings.TrimSpace(u.Number)
	if err := forms.Validate(&u); err != nil {
		return nil, err
	}
	return s.Repo.CreateUnit(ctx, propertyID, u)
}

func (s *Service) GetLandlordUnits(ctx context.Context) ([]Unit, error) {
	return s.Repo.GetLandlordUnits(ctx)
}
