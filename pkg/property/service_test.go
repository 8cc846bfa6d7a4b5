package property_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"homezen/pkg/forms"
	"homezen/pkg/property"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetAll(ctx context.Context) ([]property.Property, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]property.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, p property.NewProperty) (*property.Property, error) {
	args := m.Called(ctx, p)
	if out := args.Get(0); out != nil {
		return out.(*property.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetUnits(ctx context.Context, propertyID string) ([]property.Unit, error) {
	args := m.Called(ctx, propertyID)
	if u := args.Get(0); u != nil {
		return u.([]property.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateUnit(ctx context.Context, propertyID string, u property.NewUnit) (*property.Unit, error) {
	args := m.Called(ctx, propertyID, u)
	if out := args.Get(0); out != nil {
		return out.(*property.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetLandlordUnits(ctx context.Context) ([]property.Unit, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]property.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success trims input", func(t *testing.T) {
		repo := new(mockRepo)
		svc := property.NewService(repo)
		want := property.NewProperty{Name: "Nairobi Heights", Address: "Kilimani"}
		repo.On("Create", ctx, want).Return(&property.Property{ID: "1", Name: want.Name, Address: want.Address}, nil)

		p, err := svc.Create(ctx, property.NewProperty{Name: "  Nairobi Heights ", Address: "Kilimani "})
		require.NoError(t, err)
		assert.Equal(t, "Nairobi Heights", p.Name)
		repo.AssertExpectations(t)
	})

	t.Run("empty name never reaches the api", func(t *testing.T) {
		repo := new(mockRepo)
		svc := property.NewService(repo)

		p, err := svc.Create(ctx, property.NewProperty{Name: "   ", Address: "Kilimani"})
		assert.Nil(t, p)
		var verr *forms.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Map(), "name")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("backend error", func(t *testing.T) {
		repo := new(mockRepo)
		svc := property.NewService(repo)
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("boom"))

		_, err := svc.Create(ctx, property.NewProperty{Name: "A", Address: "B"})
		assert.EqualError(t, err, "boom")
	})
}

func TestService_GetVacantUnits(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := property.NewService(repo)

	repo.On("GetUnits", ctx, "7").Return([]property.Unit{
		{ID: "1", Number: "A101", Status: "OCCUPIED"},
		{ID: "2", Number: "A102", Status: "VACANT"},
		{ID: "3", Number: "A103", Status: "vacant"},
	}, nil)

	units, err := svc.GetVacantUnits(ctx, "7")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "A102", units[0].Number)

	_, err = svc.GetVacantUnits(ctx, "")
	assert.ErrorIs(t, err, property.ErrNoProperty)
}

func TestService_CreateUnit(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := property.NewService(repo)

	_, err := svc.CreateUnit(ctx, "7", property.NewUnit{Number: "A1", Rent: 0})
	assert.Contains(t, forms.Fields(err), "rent")

	_, err = svc.CreateUnit(ctx, "", property.NewUnit{Number: "A1", Rent: 10})
	assert.ErrorIs(t, err, property.ErrNoProperty)

	unit := property.NewUnit{Number: "A1", Rent: 45000, Deposit: 45000}
	repo.On("CreateUnit", ctx, "7", unit).Return(&property.Unit{ID: "9", Number: "A1"}, nil)
	u, err := svc.CreateUnit(ctx, "7", unit)
	require.NoError(t, err)
	assert.Equal(t, "A1", u.Number)
	repo.AssertNumberOfCalls(t, "CreateUnit", 1)
}
