package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/platform/httpx"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// Handler exposes sales endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, az authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), authz: az}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapViewVendas))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapCreateVendas))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapCancelVendas))
		r.Post("/{id}/cancelar", h.cancel)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapViewClientes))
		r.Get("/clientes", h.searchClientes)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapManageClientes))
		r.Post("/clientes", h.createCliente)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	vendas, err := h.service.ListVisible(r.Context(), user, limit, offset)
	if err != nil {
		h.logger.Error("list vendas", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vendas": vendas})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	venda, err := h.service.GetVisible(r.Context(), authz.UserFromContext(r.Context()), id)
	if err != nil {
		// Invisible rows answer 404, not 403; existence is not revealed.
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, ErrNotVisible) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "venda not found")
			return
		}
		h.logger.Error("get venda", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, venda)
}

type createVendaRequest struct {
	ClienteID int64   `json:"cliente_id" validate:"required"`
	Total     float64 `json:"total" validate:"gte=0"`
	Notas     *string `json:"notas"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createVendaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	venda, err := h.service.Create(r.Context(), authz.UserFromContext(r.Context()), CreateInput{
		ClienteID: req.ClienteID,
		Total:     req.Total,
		Notas:     req.Notas,
	})
	if err != nil {
		if errors.Is(err, ErrStoreRequired) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Store Required", err.Error())
			return
		}
		h.logger.Error("create venda", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, venda)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	err = h.service.Cancel(r.Context(), authz.UserFromContext(r.Context()), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Status", err.Error())
		case errors.Is(err, shared.ErrNotFound), errors.Is(err, ErrNotVisible):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "venda not found")
		default:
			h.logger.Error("cancel venda", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelada"})
}

func (h *Handler) searchClientes(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	clientes, err := h.service.SearchClientes(r.Context(), user, r.URL.Query().Get("q"), limit)
	if err != nil {
		h.logger.Error("search clientes", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"clientes": clientes})
}

type createClienteRequest struct {
	Nome     string  `json:"nome" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telefone *string `json:"telefone"`
}

func (h *Handler) createCliente(w http.ResponseWriter, r *http.Request) {
	var req createClienteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.CreateCliente(r.Context(), authz.UserFromContext(r.Context()), Cliente{
		Nome:     req.Nome,
		Email:    req.Email,
		Telefone: req.Telefone,
	})
	if err != nil {
		if errors.Is(err, ErrStoreRequired) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Store Required", err.Error())
			return
		}
		h.logger.Error("create cliente", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}
