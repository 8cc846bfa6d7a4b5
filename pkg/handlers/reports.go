package handlers

import (
	"log/slog"
	"net/http"

	"homezen/pkg/invoice"
	"homezen/pkg/payment"
	"homezen/pkg/property"
)

type ReportHandler struct {
	Services Services
	View     *View
	Logger   *slog.Logger
}

func NewReportHandler(services Services, view *View, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{Services: services, View: view, Logger: logger}
}

type reportsData struct {
	Summary   invoice.Summary
	Months    []invoice.Month
	Balances  []invoice.Balance
	Payments  payment.Totals
	Units     int
	Vacant    int
	Occupancy float64
}

func (h *ReportHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		rent     []invoice.RentInvoice
		maint    []invoice.MaintenanceInvoice
		payments []payment.Payment
		units    []property.Unit
	)
	f := &fetch{logger: h.Logger}
	f.Go("rent invoices", func() (err error) { rent, err = h.Services.Invoices.GetRent(ctx); return })
	f.Go("maintenance invoices", func() (err error) { maint, err = h.Services.Invoices.GetMaintenance(ctx); return })
	f.Go("payments", func() (err error) { payments, err = h.Services.Payments.GetAll(ctx); return })
	f.Go("units", func() (err error) { units, err = h.Services.Properties.GetLandlordUnits(ctx); return })
	if err := f.Wait(); h.View.SessionEnded(w, r, err) {
		return
	}

	now := h.View.Now()
	data := reportsData{
		Summary:  invoice.Summarize(rent, maint, now),
		Months:   invoice.Monthly(rent, maint),
		Balances: invoice.Balances(rent, maint, now),
		Payments: payment.Summarize(payments),
		Units:    len(units),
	}
	for _, u := range units {
		if u.Vacant() {
			data.Vacant++
		}
	}
	if data.Units > 0 {
		data.Occupancy = float64(data.Units-data.Vacant) / float64(data.Units) * 100
	}

	p := h.View.Page(r, "Reports")
	p.Data = data
	h.View.Render(w, http.StatusOK, "reports", p)
}
