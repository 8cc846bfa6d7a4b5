package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"homezen/pkg/apiclient"
	"homezen/pkg/invoice"
	"homezen/pkg/maintenance"
	"homezen/pkg/payment"
	"homezen/pkg/property"
	"homezen/pkg/role"
	"homezen/pkg/session"
	"homezen/pkg/tenant"
	"homezen/pkg/user"
)

const recentLimit = 5

// Services bundles the backend services the screens read from.
type Services struct {
	Properties  property.ServiceInterface
	Tenants     tenant.ServiceInterface
	Invoices    invoice.ServiceInterface
	Payments    payment.ServiceInterface
	Maintenance maintenance.ServiceInterface
	Users       user.ServiceInterface
}

// fetch runs independent backend reads concurrently. A failed read is
// logged and leaves its target empty; only a rejected token is returned.
type fetch struct {
	g      errgroup.Group
	logger *slog.Logger
}

func (f *fetch) Go(what string, fn func() error) {
	f.g.Go(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return err
		}
		f.logger.Error("fetch "+what, "error", err)
		return nil
	})
}

func (f *fetch) Wait() error {
	return f.g.Wait()
}

// Greeting follows the local time of day.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

type DashboardHandler struct {
	Services Services
	View     *View
	Logger   *slog.Logger

	landing map[role.Role]http.HandlerFunc
}

func NewDashboardHandler(services Services, view *View, logger *slog.Logger) *DashboardHandler {
	h := &DashboardHandler{
		Services: services,
		View:     view,
		Logger:   logger,
	}
	h.landing = map[role.Role]http.HandlerFunc{
		role.Landlord: h.Landlord,
		role.Tenant:   h.Tenant,
	}
	return h
}

// Index is the landing view; the session role picks the dashboard.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess := session.Current(r.Context())
	if sess == nil {
		h.View.Forbidden(w, r)
		return
	}
	view, ok := h.landing[sess.Role]
	if !ok {
		h.View.Forbidden(w, r)
		return
	}
	view(w, r)
}

type landlordDashboard struct {
	Greeting       string
	Properties     int
	Units          int
	Occupied       int
	Occupancy      float64
	Summary        invoice.Summary
	OpenRequests   int
	RecentPayments []payment.Payment
	Requests       []maintenance.Request
}

func (h *DashboardHandler) Landlord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		props    []property.Property
		units    []property.Unit
		rent     []invoice.RentInvoice
		maint    []invoice.MaintenanceInvoice
		payments []payment.Payment
		requests []maintenance.Request
	)
	f := &fetch{logger: h.Logger}
	f.Go("properties", func() (err error) { props, err = h.Services.Properties.GetAll(ctx); return })
	f.Go("units", func() (err error) { units, err = h.Services.Properties.GetLandlordUnits(ctx); return })
	f.Go("rent invoices", func() (err error) { rent, err = h.Services.Invoices.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { maint, err = h.Services.Invoices.GetMaintenance(ctx); return })
	f.Go("payments", func() (err error) { payments, err = h.Services.Payments.GetAll(ctx); return })
	f.Go("maintenance", func() (err error) { requests, err = h.Services.Maintenance.GetAll(ctx); return })
	if err := f.Wait(); h.View.SessionEnded(w, r, err) {
		return
	}

	now := h.View.Now()
	data := landlordDashboard{
		Greeting:     Greeting(now),
		Properties:   len(props),
		Units:        len(units),
		Summary:      invoice.Summarize(rent, maint, now),
		OpenRequests: maintenance.Open(requests),
	}
	for _, u := range units {
		if !u.Vacant() {
			data.Occupied++
		}
	}
	if data.Units > 0 {
		data.Occupancy = float64(data.Occupied) / float64(data.Units) * 100
	}
	data.RecentPayments = recentPayments(payments, recentLimit)
	data.Requests = openRequests(requests, recentLimit)

	p := h.View.Page(r, "Dashboard")
	p.Data = data
	h.View.Render(w, http.StatusOK, "landlord_dashboard", p)
}

type tenantDashboard struct {
	Greeting string
	User     *user.User
	Balance  invoice.Balance
	NextRent *invoice.RentInvoice
	Requests []maintenance.Request
	Payments []payment.Payment
}

func (h *DashboardHandler) Tenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		me       *user.User
		rent     []invoice.RentInvoice
		maint    []invoice.MaintenanceInvoice
		requests []maintenance.Request
		payments []payment.Payment
	)
	f := &fetch{logger: h.Logger}
	f.Go("current user", func() (err error) { me, err = h.Services.Users.Current(ctx); return })
	f.Go("rent invoices", func() (err error) { rent, err = h.Services.Invoices.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { maint, err = h.Services.Invoices.GetMaintenance(ctx); return })
	f.Go("maintenance", func() (err error) { requests, err = h.Services.Maintenance.GetAll(ctx); return })
	f.Go("payments", func() (err error) { payments, err = h.Services.Payments.GetAll(ctx); return })
	if err := f.Wait(); h.View.SessionEnded(w, r, err) {
		return
	}

	now := h.View.Now()
	data := tenantDashboard{
		Greeting: Greeting(now),
		User:     me,
		NextRent: nextRent(rent, now),
		Requests: openRequests(requests, recentLimit),
		Payments: recentPayments(payments, recentLimit),
	}
	data.Balance = ownBalance(rent, maint, now)

	p := h.View.Page(r, "My Home")
	p.Data = data
	h.View.Render(w, http.StatusOK, "tenant_dashboard", p)
}

func recentPayments(payments []payment.Payment, n int) []payment.Payment {
	out := make([]payment.Payment, len(payments))
	copy(out, payments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func openRequests(requests []maintenance.Request, n int) []maintenance.Request {
	out := make([]maintenance.Request, 0, n)
	for _, r := range requests {
		if r.Status == maintenance.StatusCompleted {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}

// ownBalance totals what the signed-in tenant owes. The backend scopes
// invoices to the bearer, so every balance is theirs.
func ownBalance(rent []invoice.RentInvoice, maint []invoice.MaintenanceInvoice, now time.Time) invoice.Balance {
	var total invoice.Balance
	for _, b := range invoice.Balances(rent, maint, now) {
		total.Rent += b.Rent
		total.Maintenance += b.Maintenance
	}
	return total
}

// nextRent is the earliest unpaid rent invoice not yet due.
func nextRent(rent []invoice.RentInvoice, now time.Time) *invoice.RentInvoice {
	var (
		next *invoice.RentInvoice
		at   time.Time
	)
	for i := range rent {
		inv := &rent[i]
		if inv.Paid() {
			continue
		}
		due, ok := invoice.ParseDate(inv.DateDue)
		if !ok || due.Before(now) {
			continue
		}
		if next == nil || due.Before(at) {
			next, at = inv, due
		}
	}
	return next
}
