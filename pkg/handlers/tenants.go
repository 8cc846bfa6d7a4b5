package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"homezen/pkg/forms"
	"homezen/pkg/invoice"
	"homezen/pkg/property"
	"homezen/pkg/session"
	"homezen/pkg/tenant"
)

type TenantHandler struct {
	Service    tenant.ServiceInterface
	Properties property.ServiceInterface
	Invoices   invoice.ServiceInterface
	View       *View
	Logger     *slog.Logger
}

func NewTenantHandler(service tenant.ServiceInterface, properties property.ServiceInterface, invoices invoice.ServiceInterface, view *View, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{
		Service:    service,
		Properties: properties,
		Invoices:   invoices,
		View:       view,
		Logger:     logger,
	}
}

type tenantRow struct {
	tenant.Tenant
	Balance float64
}

type tenantsData struct {
	Query      string
	Tenants    []tenantRow
	Properties []property.Property
	// PropertyID is the property picked in the add-tenant form; its
	// vacant units are the only houses offered.
	PropertyID string
	Vacant     []property.Unit
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.render(w, r, http.StatusOK, strings.TrimSpace(q.Get("property")), nil, nil)
}

func (h *TenantHandler) render(w http.ResponseWriter, r *http.Request, status int, propertyID string, form map[string]string, err error) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		tenants []tenant.Tenant
		props   []property.Property
		vacant  []property.Unit
		rent    []invoice.RentInvoice
		maint   []invoice.MaintenanceInvoice
	)
	f := &fetch{logger: h.Logger}
	f.Go("tenants", func() (err error) { tenants, err = h.Service.Search(ctx, query); return })
	f.Go("properties", func() (err error) { props, err = h.Properties.GetAll(ctx); return })
	f.Go("rent invoices", func() (err error) { rent, err = h.Invoices.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { maint, err = h.Invoices.GetMaintenance(ctx); return })
	if propertyID != "" {
		f.Go("vacant units", func() (err error) { vacant, err = h.Properties.GetVacantUnits(ctx, propertyID); return })
	}
	if fetchErr := f.Wait(); h.View.SessionEnded(w, r, fetchErr) {
		return
	}

	balances := make(map[string]float64)
	for _, b := range invoice.Balances(rent, maint, h.View.Now()) {
		balances[b.TenantID] = b.Total()
	}
	rows := make([]tenantRow, 0, len(tenants))
	for _, t := range tenants {
		rows = append(rows, tenantRow{Tenant: t, Balance: balances[t.ID.String()]})
	}

	p := h.View.Page(r, "Tenants")
	if form != nil {
		p.Form = form
	}
	if err != nil {
		p.Fields = forms.Fields(err)
		p.Error = formError(err, "Failed to add tenant.")
	}
	p.Data = tenantsData{
		Query:      query,
		Tenants:    rows,
		Properties: props,
		PropertyID: propertyID,
		Vacant:     vacant,
	}
	h.View.Render(w, status, "tenants", p)
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := formValues(r, "name", "email", "tel", "national_id", "hse", "property_id")
	in := tenant.NewTenant{
		Name:       form["name"],
		Email:      form["email"],
		Tel:        form["tel"],
		NationalID: form["national_id"],
		House:      form["hse"],
	}

	created, err := h.Service.Create(r.Context(), form["property_id"], in)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("create tenant rejected", "error", err)
		h.render(w, r, http.StatusUnprocessableEntity, form["property_id"], form, err)
		return
	}

	h.View.Notify(r, session.NotifySuccess, created.Name+" added as a tenant.")
	seeOther(w, r, "/tenants")
}
