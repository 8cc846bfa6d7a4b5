package routing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"homezen/pkg/apiclient"
	"homezen/pkg/handlers"
	"homezen/pkg/invoice"
	"homezen/pkg/maintenance"
	"homezen/pkg/middleware"
	"homezen/pkg/payment"
	"homezen/pkg/property"
	"homezen/pkg/role"
	"homezen/pkg/session"
	"homezen/pkg/tenant"
	"homezen/pkg/user"
)

const (
	idPattern       = "{id:[A-Za-z0-9-]+}"
	shutdownTimeout = 10 * time.Second
)

type Options struct {
	APIBaseURL    string
	APITimeout    time.Duration
	SessionSecret string
	CookieSecure  bool
	// Assets holds templates/ and static/.
	Assets fs.FS
	Logger *slog.Logger
}

// NewRouter wires the backend client, the services and the handlers
// into one router.
func NewRouter(opts Options) (*mux.Router, error) {
	logger := opts.Logger

	api := apiclient.New(opts.APIBaseURL, apiclient.WithLogger(logger), apiclient.WithTimeout(opts.APITimeout))
	services := handlers.Services{
		Properties:  property.NewService(property.NewAPIRepo(api)),
		Tenants:     tenant.NewService(tenant.NewAPIRepo(api)),
		Invoices:    invoice.NewService(invoice.NewAPIRepo(api)),
		Payments:    payment.NewService(payment.NewAPIRepo(api)),
		Maintenance: maintenance.NewService(maintenance.NewAPIRepo(api)),
		Users:       user.NewService(user.NewAPIRepo(api)),
	}

	view, err := handlers.NewView(opts.Assets, logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	sessions, err := session.NewManager(opts.SessionSecret, session.Options{Secure: opts.CookieSecure}, logger)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(view.NotFound)
	// Method mismatches never reach the guard, so they get the 404 page too.
	r.MethodNotAllowedHandler = http.HandlerFunc(view.NotFound)
	r.Use(middleware.Panic(logger, http.HandlerFunc(view.InternalError)))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Sessions(sessions))

	ServeStaticFiles(r, opts.Assets)
	initPublicRoutes(r, handlers.NewAuthHandler(services.Users, view, logger))
	initAppRoutes(r, services, view, logger)
	return r, nil
}

func initPublicRoutes(r *mux.Router, h *handlers.AuthHandler) {
	r.HandleFunc(middleware.LoginPath, h.LoginForm).Methods(http.MethodGet).Name("login")
	r.HandleFunc(middleware.LoginPath, h.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodPost).Name("logout")
	r.HandleFunc("/forgot-password", h.ForgotPasswordForm).Methods(http.MethodGet)
	r.HandleFunc("/forgot-password", h.ForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", h.ResetPasswordForm).Methods(http.MethodGet)
	r.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost)
}

func initAppRoutes(r *mux.Router, services handlers.Services, view *handlers.View, logger *slog.Logger) {
	dashboard := handlers.NewDashboardHandler(services, view, logger)
	properties := handlers.NewPropertyHandler(services.Properties, view, logger)
	tenants := handlers.NewTenantHandler(services.Tenants, services.Properties, services.Invoices, view, logger)
	financials := handlers.NewFinancialsHandler(services, view, logger)
	invoices := handlers.NewInvoiceHandler(services, view, logger)
	maint := handlers.NewMaintenanceHandler(services.Maintenance, view, logger)
	reports := handlers.NewReportHandler(services, view, logger)
	settings := handlers.NewSettingsHandler(services.Users, view, logger)

	app := r.PathPrefix("/").Subrouter()
	app.Use(middleware.Guard(middleware.GuardConfig{
		Logger:    logger,
		Now:       func() time.Time { return view.Now() },
		Loading:   http.HandlerFunc(view.Loading),
		Forbidden: http.HandlerFunc(view.Forbidden),
	}))

	deny := http.HandlerFunc(view.Forbidden)
	landlord := middleware.RequireRole(role.Landlord, deny)
	tenantOnly := middleware.RequireRole(role.Tenant, deny)

	/* shared */
	app.HandleFunc("/", dashboard.Index).Methods(http.MethodGet).Name("dashboard")
	app.HandleFunc("/financials", financials.Index).Methods(http.MethodGet)
	app.HandleFunc("/maintenance", maint.Index).Methods(http.MethodGet)
	app.HandleFunc("/settings", settings.Index).Methods(http.MethodGet)

	/* landlord */
	app.HandleFunc("/properties", properties.List).Methods(http.MethodGet)
	app.HandleFunc("/properties", properties.Create).Methods(http.MethodPost)
	app.HandleFunc("/properties/"+idPattern, properties.Units).Methods(http.MethodGet)
	app.HandleFunc("/properties/"+idPattern+"/units", properties.CreateUnit).Methods(http.MethodPost)
	app.HandleFunc("/tenants", tenants.List).Methods(http.MethodGet)
	app.HandleFunc("/tenants", tenants.Create).Methods(http.MethodPost)
	app.HandleFunc("/reports", reports.Index).Methods(http.MethodGet)
	app.Handle("/financials/payments", landlord(http.HandlerFunc(financials.RecordPayment))).Methods(http.MethodPost)
	app.Handle("/financials/payments/"+idPattern, landlord(http.HandlerFunc(financials.EditPayment))).Methods(http.MethodPost)
	app.Handle("/financials/upload", landlord(http.HandlerFunc(financials.Upload))).Methods(http.MethodPost)
	app.Handle("/financials/invoices/new", landlord(http.HandlerFunc(invoices.NewForm))).Methods(http.MethodGet)
	app.Handle("/financials/invoices/new", landlord(http.HandlerFunc(invoices.Step))).Methods(http.MethodPost)
	app.Handle("/financials/invoices/"+idPattern, landlord(http.HandlerFunc(financials.EditMaintenanceInvoice))).Methods(http.MethodPost)
	app.Handle("/maintenance/"+idPattern+"/status", landlord(http.HandlerFunc(maint.UpdateStatus))).Methods(http.MethodPost)

	/* tenant */
	app.HandleFunc("/invoices", invoices.Mine).Methods(http.MethodGet)
	app.Handle("/maintenance", tenantOnly(http.HandlerFunc(maint.Create))).Methods(http.MethodPost)
}

func ServeStaticFiles(r *mux.Router, assets fs.FS) {
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(assets)))
}

// StartServer serves until ctx is cancelled, then drains in-flight
// requests.
func StartServer(ctx context.Context, addr string, r http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(r, "homezen"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
