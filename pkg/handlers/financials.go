package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"homezen/pkg/apiclient"
	"homezen/pkg/forms"
	"homezen/pkg/invoice"
	"homezen/pkg/payment"
	"homezen/pkg/role"
	"homezen/pkg/session"
	"homezen/pkg/tenant"
)

const (
	maxStatementSize = 10 << 20
	statementField   = "statement"

	tabPayments       = "payments"
	tabInvoices       = "invoices"
	tabReconciliation = "reconciliation"
)

type FinancialsHandler struct {
	Payments payment.ServiceInterface
	Invoices invoice.ServiceInterface
	Tenants  tenant.ServiceInterface
	View     *View
	Logger   *slog.Logger

	views map[role.Role]http.HandlerFunc
}

func NewFinancialsHandler(services Services, view *View, logger *slog.Logger) *FinancialsHandler {
	h := &FinancialsHandler{
		Payments: services.Payments,
		Invoices: services.Invoices,
		Tenants:  services.Tenants,
		View:     view,
		Logger:   logger,
	}
	h.views = map[role.Role]http.HandlerFunc{
		role.Landlord: h.landlord,
		role.Tenant:   h.tenant,
	}
	return h
}

func (h *FinancialsHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess := session.Current(r.Context())
	if sess == nil {
		h.View.Forbidden(w, r)
		return
	}
	if view, ok := h.views[sess.Role]; ok {
		view(w, r)
		return
	}
	h.View.Forbidden(w, r)
}

type financialsData struct {
	Tab          string
	Payments     []payment.Payment
	Totals       payment.Totals
	Rent         []invoice.RentInvoice
	Maintenance  []invoice.MaintenanceInvoice
	Summary      invoice.Summary
	Transactions []payment.Transaction
	Unmatched    int
	Tenants      []tenant.Tenant
	Methods      []string
}

func (h *FinancialsHandler) landlord(w http.ResponseWriter, r *http.Request) {
	h.renderLandlord(w, r, http.StatusOK, nil, nil)
}

func (h *FinancialsHandler) renderLandlord(w http.ResponseWriter, r *http.Request, status int, form map[string]string, err error) {
	ctx := r.Context()
	data := financialsData{Tab: tab(r), Methods: payment.Methods}

	f := &fetch{logger: h.Logger}
	f.Go("payments", func() (err error) { data.Payments, err = h.Payments.GetAll(ctx); return })
	f.Go("rent invoices", func() (err error) { data.Rent, err = h.Invoices.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { data.Maintenance, err = h.Invoices.GetMaintenance(ctx); return })
	f.Go("transactions", func() (err error) { data.Transactions, err = h.Payments.GetTransactions(ctx); return })
	f.Go("tenants", func() (err error) { data.Tenants, err = h.Tenants.GetAll(ctx); return })
	if fetchErr := f.Wait(); h.View.SessionEnded(w, r, fetchErr) {
		return
	}

	data.Totals = payment.Summarize(data.Payments)
	data.Summary = invoice.Summarize(data.Rent, data.Maintenance, h.View.Now())
	data.Unmatched = len(payment.Unmatched(data.Transactions))

	p := h.View.Page(r, "Financials")
	if form != nil {
		p.Form = form
	}
	if err != nil {
		p.Fields = forms.Fields(err)
		p.Error = formError(err, "Failed to record payment.")
	}
	p.Data = data
	h.View.Render(w, status, "financials", p)
}

func tab(r *http.Request) string {
	switch t := r.URL.Query().Get("tab"); t {
	case tabInvoices, tabReconciliation:
		return t
	default:
		return tabPayments
	}
}

type tenantPaymentsData struct {
	Payments    []payment.Payment
	Totals      payment.Totals
	Rent        []invoice.RentInvoice
	Maintenance []invoice.MaintenanceInvoice
	Balance     invoice.Balance
}

func (h *FinancialsHandler) tenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data tenantPaymentsData

	f := &fetch{logger: h.Logger}
	f.Go("payments", func() (err error) { data.Payments, err = h.Payments.GetAll(ctx); return })
	f.Go("rent invoices", func() (err error) { data.Rent, err = h.Invoices.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { data.Maintenance, err = h.Invoices.GetMaintenance(ctx); return })
	if err := f.Wait(); h.View.SessionEnded(w, r, err) {
		return
	}

	data.Totals = payment.Summarize(data.Payments)
	data.Balance = ownBalance(data.Rent, data.Maintenance, h.View.Now())

	p := h.View.Page(r, "Payments")
	p.Data = data
	h.View.Render(w, http.StatusOK, "tenant_payments", p)
}

func (h *FinancialsHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := formValues(r, "tenant_id", "amount", "method", "reference", "date")
	in := payment.NewPayment{
		TenantID:  form["tenant_id"],
		Amount:    parseAmount(form["amount"]),
		Method:    form["method"],
		Reference: form["reference"],
		Date:      form["date"],
	}

	created, err := h.Payments.Create(r.Context(), in)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("record payment rejected", "error", err)
		h.renderLandlord(w, r, http.StatusUnprocessableEntity, form, err)
		return
	}

	h.View.Notify(r, session.NotifySuccess, fmt.Sprintf("Payment of %s recorded.", kes(created.Amount)))
	seeOther(w, r, "/financials")
}

func (h *FinancialsHandler) EditPayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)[muxVarID]
	in := payment.EditPayment{
		Amount:    parseAmount(r.PostForm.Get("amount")),
		Reference: r.PostForm.Get("reference"),
		Status:    r.PostForm.Get("status"),
	}

	if _, err := h.Payments.Edit(r.Context(), id, in); err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("edit payment rejected", "payment_id", id, "error", err)
		h.View.Notify(r, session.NotifyError, formError(err, "Failed to update payment."))
		seeOther(w, r, "/financials")
		return
	}

	h.View.Notify(r, session.NotifySuccess, "Payment updated.")
	seeOther(w, r, "/financials")
}

func (h *FinancialsHandler) EditMaintenanceInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)[muxVarID]
	in := invoice.EditMaintenance{
		Status:      r.PostForm.Get("status"),
		TotalAmount: parseAmount(r.PostForm.Get("total_amount")),
	}

	if _, err := h.Invoices.EditMaintenance(r.Context(), id, in); err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("edit maintenance invoice rejected", "invoice_id", id, "error", err)
		h.View.Notify(r, session.NotifyError, formError(err, "Failed to update invoice."))
		seeOther(w, r, "/financials?tab="+tabInvoices)
		return
	}

	h.View.Notify(r, session.NotifySuccess, "Invoice updated.")
	seeOther(w, r, "/financials?tab="+tabInvoices)
}

// Upload forwards a bank statement for reconciliation. Every outcome is
// reported as a toast on the reconciliation tab.
func (h *FinancialsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	back := "/financials?tab=" + tabReconciliation

	r.Body = http.MaxBytesReader(w, r.Body, maxStatementSize)
	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		h.Logger.Info("statement upload unreadable", "error", err)
		h.View.Notify(r, session.NotifyError, "The statement could not be read. Files must be under 10 MB.")
		seeOther(w, r, back)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(statementField)
	if err != nil {
		h.View.Notify(r, session.NotifyError, payment.ErrNoFile.Error())
		seeOther(w, r, back)
		return
	}
	defer file.Close()

	res, err := h.Payments.Upload(r.Context(), header.Filename, file)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		msg := apiclient.Detail(err, "Upload failed. Please check the file and try again.")
		if errors.Is(err, payment.ErrUnsupportedFile) || errors.Is(err, payment.ErrNoFile) {
			msg = err.Error()
		}
		h.Logger.Info("statement upload rejected", "file", header.Filename, "error", err)
		h.View.Notify(r, session.NotifyError, msg)
		seeOther(w, r, back)
		return
	}

	msg := res.Message
	if msg == "" {
		msg = fmt.Sprintf("Statement uploaded: %d transactions imported, %d matched.", res.Imported, res.Matched)
	}
	h.Logger.Info("statement uploaded", "file", header.Filename, "imported", res.Imported, "matched", res.Matched)
	h.View.Notify(r, session.NotifySuccess, msg)
	seeOther(w, r, back)
}
