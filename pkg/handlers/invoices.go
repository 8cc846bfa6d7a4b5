package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"homezen/pkg/forms"
	"homezen/pkg/invoice"
	"homezen/pkg/property"
	"homezen/pkg/session"
	"homezen/pkg/tenant"
)

const (
	wizardPath = "/financials/invoices/new"

	actionNext   = "next"
	actionBack   = "back"
	actionSubmit = "submit"
)

type InvoiceHandler struct {
	Service    invoice.ServiceInterface
	Properties property.ServiceInterface
	Tenants    tenant.ServiceInterface
	View       *View
	Logger     *slog.Logger
}

func NewInvoiceHandler(services Services, view *View, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		Service:    services.Invoices,
		Properties: services.Properties,
		Tenants:    services.Tenants,
		View:       view,
		Logger:     logger,
	}
}

type wizardData struct {
	Wizard     invoice.Wizard
	Steps      []invoice.Step
	Position   int
	Properties []property.Property
	Units      []property.Unit
	Tenants    []tenant.Tenant
	// chosen entities, resolved for the confirmation step
	Property *property.Property
	Unit     *property.Unit
	Tenant   *tenant.Tenant
}

func (h *InvoiceHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderWizard(w, r, http.StatusOK, invoice.NewWizard(), nil)
}

// Step advances, rewinds or submits the wizard. All state comes back
// in the form.
func (h *InvoiceHandler) Step(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	wiz := invoice.FromForm(r.PostForm)

	switch r.PostForm.Get("action") {
	case actionBack:
		h.renderWizard(w, r, http.StatusOK, wiz.Back(), nil)
	case actionSubmit:
		h.generate(w, r, wiz)
	default:
		next, err := wiz.Next()
		if err != nil {
			h.renderWizard(w, r, http.StatusUnprocessableEntity, next, err)
			return
		}
		h.renderWizard(w, r, http.StatusOK, next, nil)
	}
}

func (h *InvoiceHandler) generate(w http.ResponseWriter, r *http.Request, wiz invoice.Wizard) {
	gen, err := h.Service.Generate(r.Context(), wiz)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		if errors.Is(err, invoice.ErrNotConfirmed) {
			seeOther(w, r, wizardPath)
			return
		}
		h.Logger.Info("generate invoice rejected", "kind", string(wiz.Kind), "error", err)
		h.renderWizard(w, r, http.StatusUnprocessableEntity, wiz, err)
		return
	}

	msg := "Invoice generated."
	switch {
	case gen.Rent != nil:
		msg = "Rent invoice of " + kes(gen.Rent.Amount) + " generated."
		h.Logger.Info("rent invoice generated", "invoice_id", gen.Rent.ID.String(), "user_id", userID(r))
	case gen.Maintenance != nil:
		msg = "Maintenance invoice of " + kes(gen.Maintenance.TotalAmount) + " generated."
		h.Logger.Info("maintenance invoice generated", "invoice_id", gen.Maintenance.ID.String(), "user_id", userID(r))
	}
	h.View.Notify(r, session.NotifySuccess, msg)
	seeOther(w, r, "/financials?tab="+tabInvoices)
}

// renderWizard loads only what the current step offers as choices.
func (h *InvoiceHandler) renderWizard(w http.ResponseWriter, r *http.Request, status int, wiz invoice.Wizard, err error) {
	ctx := r.Context()
	data := wizardData{Wizard: wiz, Steps: wiz.Steps()}
	for i, s := range data.Steps {
		if s == wiz.Step {
			data.Position = i
		}
	}

	f := &fetch{logger: h.Logger}
	switch wiz.Step {
	case invoice.StepProperty:
		f.Go("properties", func() (err error) { data.Properties, err = h.Properties.GetAll(ctx); return })
	case invoice.StepUnit:
		f.Go("units", func() (err error) { data.Units, err = h.Properties.GetUnits(ctx, wiz.PropertyID); return })
	case invoice.StepTenant:
		f.Go("tenants", func() (err error) { data.Tenants, err = h.Tenants.GetAll(ctx); return })
	case invoice.StepConfirm:
		if wiz.Kind == invoice.KindRent {
			f.Go("properties", func() (err error) { data.Properties, err = h.Properties.GetAll(ctx); return })
			f.Go("units", func() (err error) { data.Units, err = h.Properties.GetUnits(ctx, wiz.PropertyID); return })
		} else {
			f.Go("tenants", func() (err error) { data.Tenants, err = h.Tenants.GetAll(ctx); return })
		}
	}
	if fetchErr := f.Wait(); h.View.SessionEnded(w, r, fetchErr) {
		return
	}
	data.resolve()

	p := h.View.Page(r, "Generate Invoice")
	if err != nil {
		p.Fields = forms.Fields(err)
		p.Error = formError(err, "Failed to generate invoice.")
	}
	p.Data = data
	h.View.Render(w, status, "invoice_wizard", p)
}

func (d *wizardData) resolve() {
	for i := range d.Properties {
		if d.Properties[i].ID.String() == d.Wizard.PropertyID {
			d.Property = &d.Properties[i]
		}
	}
	for i := range d.Units {
		if d.Units[i].ID.String() == d.Wizard.UnitID {
			d.Unit = &d.Units[i]
		}
	}
	for i := range d.Tenants {
		if d.Tenants[i].ID.String() == d.Wizard.TenantID {
			d.Tenant = &d.Tenants[i]
		}
	}
}

type tenantInvoicesData struct {
	Rent        []invoice.RentInvoice
	Maintenance []invoice.MaintenanceInvoice
	Balance     invoice.Balance
}

// Mine lists the signed-in tenant's invoices. The backend scopes both
// lists to the bearer of the token.
func (h *InvoiceHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data tenantInvoicesData

	f := &fetch{logger: h.Logger}
	f.Go("rent invoices", func() (err error) { data.Rent, err = h.Service.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { data.Maintenance, err = h.Service.GetMaintenance(ctx); return })
	if err := f.Wait(); h.View.SessionEnded(w, r, err) {
		return
	}

	data.Balance = ownBalance(data.Rent, data.Maintenance, h.View.Now())

	p := h.View.Page(r, "My Invoices")
	p.Data = data
	h.View.Render(w, http.StatusOK, "invoices", p)
}
