package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"homezen/pkg/apiclient"
	"homezen/pkg/handlers"
	"homezen/pkg/invoice"
	"homezen/pkg/maintenance"
	"homezen/pkg/payment"
	"homezen/pkg/property"
	"homezen/pkg/role"
	"homezen/pkg/session"
	"homezen/pkg/user"
)

func stubLandlordReads(s *services) {
	s.props.On("GetAll", mock.Anything).Return([]property.Property{{ID: "1", Name: "Sunrise"}}, nil)
	s.props.On("GetLandlordUnits", mock.Anything).Return([]property.Unit{
		{ID: "1", Status: "OCCUPIED"}, {ID: "2", Status: property.StatusVacant},
	}, nil)
	s.invoices.On("GetRent", mock.Anything).Return([]invoice.RentInvoice{}, nil)
	s.invoices.On("GetMaintenance", mock.Anything).Return([]invoice.MaintenanceInvoice{}, nil)
	s.payments.On("GetAll", mock.Anything).Return([]payment.Payment{}, nil)
	s.maint.On("GetAll", mock.Anything).Return([]maintenance.Request{}, nil)
}

func stubTenantReads(s *services) {
	s.users.On("Current", mock.Anything).Return(&user.User{ID: "9", Name: "Tom"}, nil)
	s.invoices.On("GetRent", mock.Anything).Return([]invoice.RentInvoice{}, nil)
	s.invoices.On("GetMaintenance", mock.Anything).Return([]invoice.MaintenanceInvoice{}, nil)
	s.payments.On("GetAll", mock.Anything).Return([]payment.Payment{}, nil)
	s.maint.On("GetAll", mock.Anything).Return([]maintenance.Request{}, nil)
}

func TestDashboardIndex(t *testing.T) {
	t.Run("landlord", func(t *testing.T) {
		s, svc := newServices()
		stubLandlordReads(s)
		h := handlers.NewDashboardHandler(svc, testView(t), quiet)

		sess := landlord
		r, _ := withSession(httptest.NewRequest(http.MethodGet, "/", nil), &sess)
		w := httptest.NewRecorder()

		h.Index(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APP Dashboard|")
		s.users.AssertNotCalled(t, "Current", mock.Anything)
	})

	t.Run("tenant", func(t *testing.T) {
		s, svc := newServices()
		stubTenantReads(s)
		h := handlers.NewDashboardHandler(svc, testView(t), quiet)

		sess := tenantS
		r, _ := withSession(httptest.NewRequest(http.MethodGet, "/", nil), &sess)
		w := httptest.NewRecorder()

		h.Index(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APP My Home|")
		s.props.AssertNotCalled(t, "GetLandlordUnits", mock.Anything)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, svc := newServices()
		h := handlers.NewDashboardHandler(svc, testView(t), quiet)

		sess := session.New("5", role.Unknown, now.Add(time.Hour).Unix(), "t")
		r, _ := withSession(httptest.NewRequest(http.MethodGet, "/", nil), &sess)
		w := httptest.NewRecorder()

		h.Index(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("failed reads still render", func(t *testing.T) {
		s, svc := newServices()
		s.props.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))
		s.props.On("GetLandlordUnits", mock.Anything).Return(nil, errors.New("connection refused"))
		s.invoices.On("GetRent", mock.Anything).Return([]invoice.RentInvoice{}, nil)
		s.invoices.On("GetMaintenance", mock.Anything).Return([]invoice.MaintenanceInvoice{}, nil)
		s.payments.On("GetAll", mock.Anything).Return([]payment.Payment{}, nil)
		s.maint.On("GetAll", mock.Anything).Return([]maintenance.Request{}, nil)
		h := handlers.NewDashboardHandler(svc, testView(t), quiet)

		sess := landlord
		r, store := withSession(httptest.NewRequest(http.MethodGet, "/", nil), &sess)
		w := httptest.NewRecorder()

		h.Index(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, store.loggedOut)
	})

	t.Run("rejected token ends the session", func(t *testing.T) {
		s, svc := newServices()
		s.users.On("Current", mock.Anything).Return(nil, &apiclient.APIError{Status: http.StatusUnauthorized})
		s.invoices.On("GetRent", mock.Anything).Return([]invoice.RentInvoice{}, nil)
		s.invoices.On("GetMaintenance", mock.Anything).Return([]invoice.MaintenanceInvoice{}, nil)
		s.payments.On("GetAll", mock.Anything).Return([]payment.Payment{}, nil)
		s.maint.On("GetAll", mock.Anything).Return([]maintenance.Request{}, nil)
		h := handlers.NewDashboardHandler(svc, testView(t), quiet)

		sess := tenantS
		r, store := withSession(httptest.NewRequest(http.MethodGet, "/", nil), &sess)
		w := httptest.NewRecorder()

		h.Index(w, r)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?expired=1", w.Header().Get("Location"))
		assert.True(t, store.loggedOut)
	})
}

func TestGreeting(t *testing.T) {
	cases := map[int]string{
		6:  "Good morning",
		11: "Good morning",
		12: "Good afternoon",
		16: "Good afternoon",
		17: "Good evening",
		23: "Good evening",
	}
	for hour, want := range cases {
		at := time.Date(2024, time.March, 10, hour, 30, 0, 0, time.UTC)
		assert.Equal(t, want, handlers.Greeting(at), "hour %d", hour)
	}
}

func TestReports(t *testing.T) {
	s, svc := newServices()
	s.invoices.On("GetRent", mock.Anything).Return([]invoice.RentInvoice{
		{ID: "1", TenantID: "30", TenantName: "Tom", Amount: 45000, Status: "UNPAID", DateDue: "2024-04-01"},
	}, nil)
	s.invoices.On("GetMaintenance", mock.Anything).Return([]invoice.MaintenanceInvoice{}, nil)
	s.payments.On("GetAll", mock.Anything).Return([]payment.Payment{}, nil)
	s.props.On("GetLandlordUnits", mock.Anything).Return([]property.Unit{}, nil)
	h := handlers.NewReportHandler(svc, testView(t), quiet)

	sess := landlord
	r, _ := withSession(httptest.NewRequest(http.MethodGet, "/reports", nil), &sess)
	w := httptest.NewRecorder()

	h.Index(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "APP Reports|")
	s.invoices.AssertExpectations(t)
}

func TestSettings(t *testing.T) {
	s, svc := newServices()
	s.users.On("Current", mock.Anything).Return(&user.User{ID: "7", Name: "Jane"}, nil)
	h := handlers.NewSettingsHandler(svc.Users, testView(t), quiet)

	sess := landlord
	r, _ := withSession(httptest.NewRequest(http.MethodGet, "/settings", nil), &sess)
	w := httptest.NewRecorder()

	h.Index(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "APP Settings|")
}
