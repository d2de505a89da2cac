package inventory

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

// Handler exposes inventory endpoints.
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

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapViewEstoque))
		r.Get("/produtos", h.listProdutos)
		r.Get("/produtos/{id}", h.getProduto)
		r.Get("/", h.listStock)
		r.Get("/baixo", h.lowStock)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.CapManageEstoque))
		r.Post("/produtos", h.createProduto)
		r.Put("/produtos/{id}", h.updateProduto)
		r.Post("/ajuste", h.adjustStock)
	})
}

func (h *Handler) listProdutos(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("todos") == ""
	produtos, err := h.service.ListProdutos(r.Context(), onlyActive)
	if err != nil {
		h.logger.Error("list produtos", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"produtos": produtos})
}

func (h *Handler) getProduto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	produto, err := h.service.GetProduto(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "produto not found")
			return
		}
		h.logger.Error("get produto", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, produto)
}

type produtoRequest struct {
	SKU       string  `json:"sku" validate:"required"`
	Nome      string  `json:"nome" validate:"required"`
	Categoria string  `json:"categoria"`
	Preco     float64 `json:"preco" validate:"gte=0"`
	Ativo     *bool   `json:"ativo"`
}

func (h *Handler) createProduto(w http.ResponseWriter, r *http.Request) {
	var req produtoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	id, err := h.service.CreateProduto(r.Context(), actorID(r), Produto{
		SKU:       req.SKU,
		Nome:      req.Nome,
		Categoria: req.Categoria,
		Preco:     req.Preco,
		Ativo:     ativo,
	})
	if err != nil {
		h.logger.Error("create produto", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) updateProduto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req produtoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ativo := true
	if req.Ativo != nil {
		ativo = *req.Ativo
	}
	err = h.service.UpdateProduto(r.Context(), actorID(r), Produto{
		ID:        id,
		Nome:      req.Nome,
		Categoria: req.Categoria,
		Preco:     req.Preco,
		Ativo:     ativo,
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "produto not found")
			return
		}
		h.logger.Error("update produto", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.ListStock(r.Context(), authz.UserFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list stock", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"estoque": levels})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.LowStock(r.Context(), authz.UserFromContext(r.Context()))
	if err != nil {
		h.logger.Error("low stock", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"estoque": levels})
}

type adjustRequest struct {
	ProdutoID int64 `json:"produto_id" validate:"required"`
	Delta     int   `json:"delta" validate:"required"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	quantidade, err := h.service.AdjustStock(r.Context(), authz.UserFromContext(r.Context()), req.ProdutoID, req.Delta)
	if err != nil {
		if errors.Is(err, ErrStoreRequired) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Store Required", err.Error())
			return
		}
		h.logger.Error("adjust stock", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"quantidade": quantidade})
}

func actorID(r *http.Request) int64 {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		return 0
	}
	id, _ := strconv.ParseInt(user.ID, 10, 64)
	return id
}
