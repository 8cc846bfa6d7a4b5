package handlers

import (
	"log/slog"
	"net/http"

	"homezen/pkg/user"
)

type SettingsHandler struct {
	Users  user.ServiceInterface
	View   *View
	Logger *slog.Logger
}

func NewSettingsHandler(users user.ServiceInterface, view *View, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{Users: users, View: view, Logger: logger}
}

type settingsData struct {
	User *user.User
}

// Index shows the profile the backend holds for the token bearer.
func (h *SettingsHandler) Index(w http.ResponseWriter, r *http.Request) {
	me, err := h.Users.Current(r.Context())
	if err != nil {
		if h.View.SessionEnded(w, r, err) {
			return
		}
		h.Logger.Error("load current user", "error", err)
	}

	p := h.View.Page(r, "Settings")
	p.Data = settingsData{User: me}
	h.View.Render(w, http.StatusOK, "settings", p)
}
