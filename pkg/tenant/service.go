package tenant

import (
	"context"
	"errors"
	"strings"

	"homezen/pkg/forms"
)

var ErrNoProperty = errors.New("select a property first")

type ServiceInterface interface {
	GetAll(ctx context.Context) ([]Tenant, error)
	Search(ctx context.Context, query string) ([]Tenant, error)
	Create(ctx context.Context, propertyID string, t NewTenant) (*Tenant, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetAll(ctx context.Context) ([]Tenant, error) {
	return s.Repo.GetAll(ctx)
}

func (s *Service) Search(ctx context.Context, query string) ([]Tenant, error) {
	all, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return all, nil
	}
	out := make([]Tenant, 0, len(all))
	for _, t := range all {
		if t.Matches(query) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, propertyID string, t NewTenant) (*Tenant, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	t.Tel = strings.TrimSpace(t.Tel)
	t.NationalID = strings.TrimSpace(t.NationalID)
	if err := forms.Validate(&t); err != nil {
		return nil, err
	}
	if propertyID == "" {
		return nil, forms.Invalid("property", ErrNoProperty.Error())
	}
	return s.Repo.Create(ctx, propertyID, t)
}
