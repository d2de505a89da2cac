package roles

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/platform/httpx"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// RefreshEnqueuer queues a role matrix rebuild on the worker. Peer nodes
// only refresh on the cron schedule otherwise.
type RefreshEnqueuer interface {
	EnqueueRolesRefresh(ctx context.Context) (*asynq.TaskInfo, error)
}

// Handler exposes the permission matrix administration endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    authz.Middleware
	jobs     RefreshEnqueuer
}

// NewHandler builds a Handler instance. jobsClient may be nil.
func NewHandler(logger *slog.Logger, service *Service, az authz.Middleware, jobsClient RefreshEnqueuer) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), authz: az, jobs: jobsClient}
}

// MountRoutes registers permission matrix routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapManagePermissoes))
		r.Get("/catalog", h.catalog)
		r.Get("/matrix", h.matrix)
		r.Put("/matrix/{role}", h.save)
		r.Delete("/matrix/{role}", h.remove)
	})
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"capabilities": authz.Catalog().Values(),
		"features":     authz.Features(),
		"roles":        authz.StaticRoleNames(),
	})
}

type matrixRow struct {
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
	Scope        string   `json:"scope"`
	Overridden   bool     `json:"overridden"`
}

func (h *Handler) matrix(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.service.ListOverrides(r.Context())
	if err != nil {
		h.logger.Error("list role overrides", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	overridden := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		overridden[o.Role] = o
	}

	rows := make([]matrixRow, 0, len(overrides)+4)
	for _, name := range authz.StaticRoleNames() {
		role, _ := (authz.StaticSource{}).Role(name)
		row := matrixRow{Role: name, Scope: string(role.Scope)}
		if role.Wildcard {
			row.Capabilities = []string{string(authz.Wildcard)}
		} else {
			row.Capabilities = capabilityStrings(role.Capabilities.Values())
		}
		if o, ok := overridden[name]; ok && name != authz.RoleAdministrator {
			effective := o.AuthzRole()
			row.Capabilities = capabilityStrings(effective.Capabilities.Values())
			row.Scope = string(effective.Scope)
			row.Overridden = true
			delete(overridden, name)
		}
		rows = append(rows, row)
	}
	// Matrix-only roles with no static counterpart.
	for _, o := range overridden {
		effective := o.AuthzRole()
		rows = append(rows, matrixRow{
			Role:         o.Role,
			Capabilities: capabilityStrings(effective.Capabilities.Values()),
			Scope:        string(effective.Scope),
			Overridden:   true,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"matrix": rows})
}

type saveOverrideRequest struct {
	Capabilities []string `json:"capabilities" validate:"required"`
	Scope        *string  `json:"scope"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	var req saveOverrideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err := h.service.Save(r.Context(), h.actorID(r), Override{
		Role:         role,
		Capabilities: req.Capabilities,
		Scope:        req.Scope,
	})
	if err != nil {
		if errors.Is(err, ErrAdministratorImmutable) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Immutable Role", err.Error())
			return
		}
		h.logger.Error("save role override", slog.Any("error", err), slog.String("role", role))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.notifyWorkers(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	err := h.service.Remove(r.Context(), h.actorID(r), role)
	if err != nil {
		switch {
		case errors.Is(err, ErrAdministratorImmutable):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Immutable Role", err.Error())
		case errors.Is(err, shared.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no override for role")
		default:
			h.logger.Error("remove role override", slog.Any("error", err), slog.String("role", role))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	h.notifyWorkers(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// notifyWorkers nudges the queue so other nodes rebuild their snapshot
// without waiting for the periodic refresh. The local snapshot is
// already fresh when this runs.
func (h *Handler) notifyWorkers(ctx context.Context) {
	if h.jobs == nil {
		return
	}
	if _, err := h.jobs.EnqueueRolesRefresh(ctx); err != nil && h.logger != nil {
		h.logger.Warn("enqueue role matrix refresh", slog.Any("error", err))
	}
}

func (h *Handler) actorID(r *http.Request) int64 {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		return 0
	}
	id, _ := strconv.ParseInt(user.ID, 10, 64)
	return id
}

func capabilityStrings(caps []authz.Capability) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
