package delivery

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/platform/httpx"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// Handler exposes delivery endpoints.
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

// MountRoutes registers delivery routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapViewEntregas))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapManageEntregas))
		r.Post("/", h.create)
		r.Post("/{id}/atribuir", h.assign)
		r.Post("/{id}/status", h.advance)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	entregas, err := h.service.ListVisible(r.Context(), user, limit, offset)
	if err != nil {
		h.logger.Error("list entregas", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entregas": entregas})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	entrega, err := h.service.GetVisible(r.Context(), authz.UserFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, ErrNotVisible) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "entrega not found")
			return
		}
		h.logger.Error("get entrega", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, entrega)
}

type createEntregaRequest struct {
	VendaID         int64      `json:"venda_id" validate:"required"`
	Endereco        string     `json:"endereco" validate:"required"`
	EntregadorEmail string     `json:"entregador_email" validate:"omitempty,email"`
	AgendadaPara    *time.Time `json:"agendada_para"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntregaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.Create(r.Context(), authz.UserFromContext(r.Context()), Entrega{
		VendaID:         req.VendaID,
		Endereco:        req.Endereco,
		EntregadorEmail: req.EntregadorEmail,
		AgendadaPara:    req.AgendadaPara,
	})
	if err != nil {
		if errors.Is(err, ErrStoreRequired) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Store Required", err.Error())
			return
		}
		h.logger.Error("create entrega", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type assignRequest struct {
	EntregadorEmail string `json:"entregador_email" validate:"required,email"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Assign(r.Context(), authz.UserFromContext(r.Context()), id, req.EntregadorEmail); err != nil {
		h.respondActionError(w, err, "assign entrega")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type advanceRequest struct {
	Status EntregaStatus `json:"status" validate:"required"`
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req advanceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Advance(r.Context(), authz.UserFromContext(r.Context()), id, req.Status); err != nil {
		h.respondActionError(w, err, "advance entrega")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

func (h *Handler) respondActionError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Status", err.Error())
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, ErrNotVisible):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "entrega not found")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
