package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"homezen/pkg/forms"
	"homezen/pkg/maintenance"
	"homezen/pkg/role"
	"homezen/pkg/session"
)

type MaintenanceHandler struct {
	Service maintenance.ServiceInterface
	View    *View
	Logger  *slog.Logger

	views map[role.Role]http.HandlerFunc
}

func NewMaintenanceHandler(service maintenance.ServiceInterface, view *View, logger *slog.Logger) *MaintenanceHandler {
	h := &MaintenanceHandler{
		Service: service,
		View:    view,
		Logger:  logger,
	}
	h.views = map[role.Role]http.HandlerFunc{
		role.Landlord: h.board,
		role.Tenant:   h.requests,
	}
	return h
}

func (h *MaintenanceHandler) Index(w http.ResponseWriter, r *http.Request) {
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

type boardData struct {
	Columns  []maintenance.Column
	Open     int
	Statuses []string
}

func (h *MaintenanceHandler) board(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.GetAll(r.Context())
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Error("list maintenance requests", "error", err)
	}

	p := h.View.Page(r, "Maintenance")
	p.Data = boardData{
		Columns:  maintenance.Board(requests),
		Open:     maintenance.Open(requests),
		Statuses: maintenance.Statuses,
	}
	h.View.Render(w, http.StatusOK, "maintenance", p)
}

type requestsData struct {
	Requests   []maintenance.Request
	Priorities []string
}

func (h *MaintenanceHandler) requests(w http.ResponseWriter, r *http.Request) {
	h.renderRequests(w, r, http.StatusOK, nil, nil)
}

func (h *MaintenanceHandler) renderRequests(w http.ResponseWriter, r *http.Request, status int, form map[string]string, err error) {
	requests, fetchErr := h.Service.GetAll(r.Context())
	if fetchErr != nil {
		if h.View.SessionEnded(w, r, fetchErr) {
			return
		}
		h.Logger.Error("list maintenance requests", "error", fetchErr)
	}

	p := h.View.Page(r, "Maintenance Requests")
	if form != nil {
		p.Form = form
	}
	if err != nil {
		p.Fields = forms.Fields(err)
		p.Error = formError(err, "Failed to submit request.")
	}
	p.Data = requestsData{Requests: requests, Priorities: maintenance.Priorities}
	h.View.Render(w, status, "tenant_maintenance", p)
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := formValues(r, "title", "description", "priority")
	in := maintenance.NewRequest{
		Title:       form["title"],
		Description: form["description"],
		Priority:    form["priority"],
	}

	created, err := h.Service.Create(r.Context(), in)
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("create maintenance request rejected", "error", err)
		h.renderRequests(w, r, http.StatusUnprocessableEntity, form, err)
		return
	}

	h.Logger.Info("maintenance request created", "request_id", created.ID.String(), "user_id", userID(r))
	h.View.Notify(r, session.NotifySuccess, "Request \""+created.Title+"\" submitted.")
	seeOther(w, r, "/maintenance")
}

func (h *MaintenanceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)[muxVarID]

	updated, err := h.Service.UpdateStatus(r.Context(), id, r.PostForm.Get("status"))
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Info("update maintenance status rejected", "request_id", id, "error", err)
		h.View.Notify(r, session.NotifyError, formError(err, "Failed to update request."))
		seeOther(w, r, "/maintenance")
		return
	}

	col := maintenance.Column{Status: updated.Status}
	h.View.Notify(r, session.NotifySuccess, "\""+updated.Title+"\" moved to "+col.Label()+".")
	seeOther(w, r, "/maintenance")
}
