package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"homezen/pkg/apiclient"
	"homezen/pkg/forms"
	"homezen/pkg/property"
	"homezen/pkg/session"
)

const muxVarID = "id"

type PropertyHandler struct {
	Service property.ServiceInterface
	View    *View
	Logger  *slog.Logger
}

func NewPropertyHandler(service property.ServiceInterface, view *View, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{
		Service: service,
		View:    view,
		Logger:  logger,
	}
}

type propertiesData struct {
	Properties []property.Property
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, nil, nil)
}

func (h *PropertyHandler) renderList(w http.ResponseWriter, r *http.Request, status int, form map[string]string, err error) {
	props, fetchErr := h.Service.GetAll(r.Context())
	if fetchErr != nil {
		if h.View.SessionEnded(w, r, fetchErr) {
			return
		}
		h.Logger.Error("list properties", "error", fetchErr)
	}

	p := h.View.Page(r, "Properties")
	if form != nil {
		p.Form = form
	}
	if err != nil {
		p.Fields = forms.Fields(err)
		p.Error = formError(err, "Failed to add property.")
	}
	p.Data = propertiesData{Properties: props}
	h.View.Render(w, status, "properties", p)
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	in := property.NewProperty{
		Name:    r.PostForm.Get("name"),
		Address: r.PostForm.Get("address"),
	}

	created, err := h.Service.Create(r.Context(), in)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("create property rejected", "error", err)
		h.renderList(w, r, http.StatusUnprocessableEntity, map[string]string{"name": in.Name, "address": in.Address}, err)
		return
	}

	h.Logger.Info("property created", "property_id", created.ID.String(), "user_id", userID(r))
	h.View.Notify(r, session.NotifySuccess, "Property \""+created.Name+"\" added.")
	seeOther(w, r, "/properties")
}

type unitsData struct {
	Property property.Property
	Units    []property.Unit
	Vacant   int
	Filter   string
}

func (h *PropertyHandler) Units(w http.ResponseWriter, r *http.Request) {
	h.renderUnits(w, r, http.StatusOK, nil, nil)
}

func (h *PropertyHandler) renderUnits(w http.ResponseWriter, r *http.Request, status int, form map[string]string, err error) {
	ctx := r.Context()
	id := mux.Vars(r)[muxVarID]

	props, fetchErr := h.Service.GetAll(ctx)
	if fetchErr != nil {
		if h.View.SessionEnded(w, r, fetchErr) {
			return
		}
		h.Logger.Error("list properties", "error", fetchErr)
	}
	data := unitsData{Property: property.Property{ID: apiclient.ID(id), Name: "Property"}}
	// without the list the id cannot be checked
	found := fetchErr != nil
	for _, prop := range props {
		if prop.ID.String() == id {
			data.Property = prop
			found = true
		}
	}
	if !found {
		h.View.NotFound(w, r)
		return
	}

	var units []property.Unit
	var unitsErr error
	data.Filter = r.URL.Query().Get("status")
	if strings.EqualFold(data.Filter, "vacant") {
		units, unitsErr = h.Service.GetVacantUnits(ctx, id)
	} else {
		units, unitsErr = h.Service.GetUnits(ctx, id)
	}
	if unitsErr != nil {
		if h.View.SessionEnded(w, r, unitsErr) {
			return
		}
		h.Logger.Error("list units", "property_id", id, "error", unitsErr)
	}
	data.Units = units
	for _, u := range units {
		if u.Vacant() {
			data.Vacant++
		}
	}

	p := h.View.Page(r, data.Property.Name)
	if form != nil {
		p.Form = form
	}
	if err != nil {
		p.Fields = forms.Fields(err)
		p.Error = formError(err, "Failed to add unit.")
	}
	p.Data = data
	h.View.Render(w, status, "property", p)
}

func (h *PropertyHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)[muxVarID]
	form := formValues(r, "number", "rent", "deposit", "description")
	in := property.NewUnit{
		Number:      form["number"],
		Rent:        parseAmount(form["rent"]),
		Deposit:     parseAmount(form["deposit"]),
		Description: form["description"],
	}

	created, err := h.Service.CreateUnit(r.Context(), id, in)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("create unit rejected", "property_id", id, "error", err)
		h.renderUnits(w, r, http.StatusUnprocessableEntity, form, err)
		return
	}

	h.View.Notify(r, session.NotifySuccess, "Unit "+created.Number+" added.")
	seeOther(w, r, "/properties/"+id)
}

func formValues(r *http.Request, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = strings.TrimSpace(r.PostForm.Get(n))
	}
	return out
}

// parseAmount reads a money field; anything unreadable is zero and
// fails the amount checks downstream.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func userID(r *http.Request) string {
	if sess := session.Current(r.Context()); sess != nil {
		return sess.UserID
	}
	return ""
}
