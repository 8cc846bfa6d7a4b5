package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"homezen/pkg/handlers"
	"homezen/pkg/invoice"
	"homezen/pkg/maintenance"
	"homezen/pkg/payment"
	"homezen/pkg/property"
	"homezen/pkg/role"
	"homezen/pkg/session"
	"homezen/pkg/tenant"
	"homezen/pkg/user"
)

var (
	quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
	now   = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	landlord = session.New("7", role.Landlord, now.Add(time.Hour).Unix(), "landlord-token")
	tenantS  = session.New("9", role.Tenant, now.Add(time.Hour).Unix(), "tenant-token")
)

const page = `{{define "content"}}{{.Title}}|{{.Error}}|{{range $k, $v := .Fields}}{{$k}}={{$v}};{{end}}{{end}}`

// testView renders every page as "title|error|fields" so assertions do
// not depend on the real markup.
func testView(t *testing.T) *handlers.View {
	t.Helper()
	fsys := fstest.MapFS{
		"templates/layout.html": {Data: []byte(
			`{{define "layout"}}APP {{range .Notifications}}[{{.Message}}]{{end}}{{template "content" .}}{{end}}` +
				`{{define "auth"}}AUTH {{template "content" .}}{{end}}`)},
		"templates/partials/empty.html": {Data: []byte(`{{define "empty"}}{{end}}`)},
	}
	for _, name := range []string{
		"login", "forgot_password", "reset_password", "landlord_dashboard", "tenant_dashboard",
		"properties", "property", "tenants", "financials", "tenant_payments", "invoice_wizard",
		"invoices", "maintenance", "tenant_maintenance", "reports", "settings",
		"not_found", "forbidden", "loading", "error",
	} {
		fsys["templates/pages/"+name+".html"] = &fstest.MapFile{Data: []byte(page)}
	}

	v, err := handlers.NewView(fsys, quiet)
	require.NoError(t, err)
	v.Now = func() time.Time { return now }
	return v
}

// fakeSession is an in-memory session store.
type fakeSession struct {
	current   *session.Session
	notes     []session.Notification
	loggedIn  *session.Session
	loggedOut bool
}

func (f *fakeSession) Initialize() error { return nil }

func (f *fakeSession) Loading() bool { return false }

func (f *fakeSession) Current() *session.Session { return f.current }

func (f *fakeSession) Login(s session.Session) error {
	f.loggedIn = &s
	f.current = &s
	return nil
}

func (f *fakeSession) Logout() error {
	f.loggedOut = true
	f.current = nil
	return nil
}

func (f *fakeSession) Notify(kind, message string) error {
	f.notes = append(f.notes, session.Notification{Kind: kind, Message: message})
	return nil
}

func (f *fakeSession) Notifications() []session.Notification {
	out := f.notes
	f.notes = nil
	return out
}

func (f *fakeSession) messages() string {
	parts := make([]string, 0, len(f.notes))
	for _, n := range f.notes {
		parts = append(parts, n.Kind+": "+n.Message)
	}
	return strings.Join(parts, "\n")
}

func withSession(r *http.Request, sess *session.Session) (*http.Request, *fakeSession) {
	fs := &fakeSession{}
	if sess != nil {
		s := *sess
		fs.current = &s
	}
	return r.WithContext(session.NewContext(r.Context(), fs)), fs
}

func postForm(target string, form map[string]string) *http.Request {
	vals := url.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

type propertyService struct{ mock.Mock }

func (m *propertyService) GetAll(ctx context.Context) ([]property.Property, error) {
	args := m.Called(ctx)
	props, _ := args.Get(0).([]property.Property)
	return props, args.Error(1)
}

func (m *propertyService) Create(ctx context.Context, p property.NewProperty) (*property.Property, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(*property.Property)
	return created, args.Error(1)
}

func (m *propertyService) GetUnits(ctx context.Context, propertyID string) ([]property.Unit, error) {
	args := m.Called(ctx, propertyID)
	units, _ := args.Get(0).([]property.Unit)
	return units, args.Error(1)
}

func (m *propertyService) GetVacantUnits(ctx context.Context, propertyID string) ([]property.Unit, error) {
	args := m.Called(ctx, propertyID)
	units, _ := args.Get(0).([]property.Unit)
	return units, args.Error(1)
}

func (m *propertyService) CreateUnit(ctx context.Context, propertyID string, u property.NewUnit) (*property.Unit, error) {
	args := m.Called(ctx, propertyID, u)
	created, _ := args.Get(0).(*property.Unit)
	return created, args.Error(1)
}

func (m *propertyService) GetLandlordUnits(ctx context.Context) ([]property.Unit, error) {
	args := m.Called(ctx)
	units, _ := args.Get(0).([]property.Unit)
	return units, args.Error(1)
}

type tenantService struct{ mock.Mock }

func (m *tenantService) GetAll(ctx context.Context) ([]tenant.Tenant, error) {
	args := m.Called(ctx)
	tenants, _ := args.Get(0).([]tenant.Tenant)
	return tenants, args.Error(1)
}

func (m *tenantService) Search(ctx context.Context, query string) ([]tenant.Tenant, error) {
	args := m.Called(ctx, query)
	tenants, _ := args.Get(0).([]tenant.Tenant)
	return tenants, args.Error(1)
}

func (m *tenantService) Create(ctx context.Context, propertyID string, t tenant.NewTenant) (*tenant.Tenant, error) {
	args := m.Called(ctx, propertyID, t)
	created, _ := args.Get(0).(*tenant.Tenant)
	return created, args.Error(1)
}

type invoiceService struct{ mock.Mock }

func (m *invoiceService) GetRent(ctx context.Context) ([]invoice.RentInvoice, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]invoice.RentInvoice)
	return out, args.Error(1)
}

func (m *invoiceService) GetMaintenance(ctx context.Context) ([]invoice.MaintenanceInvoice, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]invoice.MaintenanceInvoice)
	return out, args.Error(1)
}

func (m *invoiceService) Generate(ctx context.Context, w invoice.Wizard) (*invoice.Generated, error) {
	args := m.Called(ctx, w)
	out, _ := args.Get(0).(*invoice.Generated)
	return out, args.Error(1)
}

func (m *invoiceService) EditMaintenance(ctx context.Context, id string, req invoice.EditMaintenance) (*invoice.MaintenanceInvoice, error) {
	args := m.Called(ctx, id, req)
	out, _ := args.Get(0).(*invoice.MaintenanceInvoice)
	return out, args.Error(1)
}

type paymentService struct{ mock.Mock }

func (m *paymentService) GetAll(ctx context.Context) ([]payment.Payment, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]payment.Payment)
	return out, args.Error(1)
}

func (m *paymentService) Create(ctx context.Context, p payment.NewPayment) (*payment.Payment, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*payment.Payment)
	return out, args.Error(1)
}

func (m *paymentService) Edit(ctx context.Context, id string, p payment.EditPayment) (*payment.Payment, error) {
	args := m.Called(ctx, id, p)
	out, _ := args.Get(0).(*payment.Payment)
	return out, args.Error(1)
}

func (m *paymentService) GetTransactions(ctx context.Context) ([]payment.Transaction, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]payment.Transaction)
	return out, args.Error(1)
}

func (m *paymentService) Upload(ctx context.Context, filename string, content io.Reader) (*payment.UploadResult, error) {
	args := m.Called(ctx, filename, content)
	out, _ := args.Get(0).(*payment.UploadResult)
	return out, args.Error(1)
}

type maintenanceService struct{ mock.Mock }

func (m *maintenanceService) GetAll(ctx context.Context) ([]maintenance.Request, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]maintenance.Request)
	return out, args.Error(1)
}

func (m *maintenanceService) Create(ctx context.Context, r maintenance.NewRequest) (*maintenance.Request, error) {
	args := m.Called(ctx, r)
	out, _ := args.Get(0).(*maintenance.Request)
	return out, args.Error(1)
}

func (m *maintenanceService) UpdateStatus(ctx context.Context, id string, status string) (*maintenance.Request, error) {
	args := m.Called(ctx, id, status)
	out, _ := args.Get(0).(*maintenance.Request)
	return out, args.Error(1)
}

type userService struct{ mock.Mock }

func (m *userService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(*session.Session)
	return out, args.Error(1)
}

func (m *userService) Current(ctx context.Context) (*user.User, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*user.User)
	return out, args.Error(1)
}

func (m *userService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *userService) ResetPassword(ctx context.Context, req user.ResetPassword) error {
	return m.Called(ctx, req).Error(0)
}

type services struct {
	props    *propertyService
	tenants  *tenantService
	invoices *invoiceService
	payments *paymentService
	maint    *maintenanceService
	users    *userService
}

func newServices() (*services, handlers.Services) {
	s := &services{
		props:    new(propertyService),
		tenants:  new(tenantService),
		invoices: new(invoiceService),
		payments: new(paymentService),
		maint:    new(maintenanceService),
		users:    new(userService),
	}
	return s, handlers.Services{
		Properties:  s.props,
		Tenants:     s.tenants,
		Invoices:    s.invoices,
		Payments:    s.payments,
		Maintenance: s.maint,
		Users:       s.users,
	}
}
