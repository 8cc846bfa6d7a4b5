package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"homezen/pkg/apiclient"
	"homezen/pkg/auth"
	"homezen/pkg/forms"
	"homezen/pkg/middleware"
	"homezen/pkg/nav"
	"homezen/pkg/role"
	"homezen/pkg/session"
	"homezen/pkg/user"
)

const (
	loginFailed  = "Login failed. Please check your credentials."
	resetFailed  = "Failed to reset password. The link might be expired."
	forgotFailed = "Could not send reset link. Please try again."
)

type AuthHandler struct {
	Service user.ServiceInterface
	View    *View
	Logger  *slog.Logger
}

func NewAuthHandler(service user.ServiceInterface, view *View, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Service: service,
		View:    view,
		Logger:  logger,
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	repo, ok := session.FromContext(r.Context())
	if ok && repo.Initialize() == nil {
		in := auth.Input{Loading: repo.Loading(), Session: repo.Current()}
		if auth.Evaluate(in, h.View.Now()) == auth.Authenticated {
			seeOther(w, r, "/")
			return
		}
	}

	p := h.View.PublicPage(r, "Sign in")
	p.Form["next"] = safeNext(r.URL.Query().Get("next"))
	if r.URL.Query().Get("expired") != "" {
		p.Error = "Your session has ended. Please sign in again."
	}
	h.View.Render(w, http.StatusOK, "login", p)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	next := safeNext(r.PostForm.Get("next"))

	sess, err := h.Service.Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		h.Logger.Info("login failed", "email", email, "error", err)
		p := h.View.PublicPage(r, "Sign in")
		p.Form["email"] = email
		p.Form["next"] = next
		p.Fields = forms.Fields(err)
		p.Error = formError(err, loginFailed)
		h.View.Render(w, http.StatusUnauthorized, "login", p)
		return
	}

	repo, ok := session.FromContext(r.Context())
	if !ok {
		h.Logger.Error("login without session store")
		h.View.InternalError(w, r)
		return
	}
	if err := repo.Login(*sess); err != nil {
		h.Logger.Error("persist session", "error", err)
		h.View.InternalError(w, r)
		return
	}

	h.Logger.Info("login", "user_id", sess.UserID, "role", sess.Role.String())
	seeOther(w, r, landingFor(sess.Role, next))
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	u, err := url.Parse(next)
	if next == "" || err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return u.RequestURI()
}

// landingFor drops a next target outside the role's destinations.
func landingFor(r role.Role, next string) string {
	u, err := url.Parse(next)
	if err != nil || !nav.Allows(r, u.Path) {
		return "/"
	}
	return next
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	repo, _ := session.FromContext(r.Context())
	if repo != nil {
		if err := repo.Logout(); err != nil {
			h.Logger.Error("logout", "error", err)
		}
	}
	seeOther(w, r, middleware.LoginPath)
}

func (h *AuthHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	h.View.Render(w, http.StatusOK, "forgot_password", h.View.PublicPage(r, "Forgot password"))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))

	p := h.View.PublicPage(r, "Forgot password")
	p.Form["email"] = email
	if err := h.Service.ForgotPassword(r.Context(), email); err != nil {
		h.Logger.Info("forgot password failed", "error", err)
		p.Fields = forms.Fields(err)
		p.Error = formError(err, forgotFailed)
		h.View.Render(w, http.StatusUnprocessableEntity, "forgot_password", p)
		return
	}

	p.Data = struct{ Sent bool }{Sent: true}
	h.View.Render(w, http.StatusOK, "forgot_password", p)
}

type resetData struct {
	Token string
	Done  bool
}

func (h *AuthHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	p := h.View.PublicPage(r, "Reset password")
	p.Data = resetData{Token: r.URL.Query().Get("token")}
	h.View.Render(w, http.StatusOK, "reset_password", p)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := user.ResetPassword{
		Token:           r.PostForm.Get("token"),
		NewPassword:     r.PostForm.Get("new_password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}

	p := h.View.PublicPage(r, "Reset password")
	if err := h.Service.ResetPassword(r.Context(), req); err != nil {
		h.Logger.Info("reset password failed", "error", err)
		p.Data = resetData{Token: req.Token}
		p.Fields = forms.Fields(err)
		p.Error = formError(err, resetFailed)
		h.View.Render(w, http.StatusUnprocessableEntity, "reset_password", p)
		return
	}

	p.Data = resetData{Done: true}
	h.View.Render(w, http.StatusOK, "reset_password", p)
}

// formError picks the inline banner text: the local validation message,
// the server's detail, or fallback.
func formError(err error, fallback string) string {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if errors.Is(err, user.ErrMissingReset) {
		return err.Error()
	}
	return apiclient.Detail(err, fallback)
}
