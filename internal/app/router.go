package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/auth"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/delivery"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/inventory"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/observability"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/roles"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/sales"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/users"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	IdentityLoader auth.IdentityLoader

	AuthHandler      *auth.Handler
	SalesHandler     *sales.Handler
	InventoryHandler *inventory.Handler
	DeliveryHandler  *delivery.Handler
	UsersHandler     *users.Handler
	RolesHandler     *roles.Handler
	JobsHandler      *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(auth.UserLoader(params.IdentityLoader, params.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.SalesHandler != nil {
		r.Route("/vendas", params.SalesHandler.MountRoutes)
	}
	if params.InventoryHandler != nil {
		r.Route("/estoque", params.InventoryHandler.MountRoutes)
	}
	if params.DeliveryHandler != nil {
		r.Route("/entregas", params.DeliveryHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/admin/usuarios", params.UsersHandler.MountRoutes)
	}
	if params.RolesHandler != nil {
		r.Route("/admin/permissoes", params.RolesHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
