package procurement

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abjour-erp/abjour-erp/internal/platform/httpx"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Handler wires the purchase endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    shared.Authz
}

// NewHandler constructs the procurement handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate, authz shared.Authz) *Handler {
	return &Handler{logger: logger, service: service, validate: validate, authz: authz}
}

// MountRoutes registers purchase routes, all admin-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(shared.RoleAdmin))
		r.Get("/purchases", h.List)
		r.Post("/purchases", h.Create)
		r.Get("/purchases/{id}", h.Show)
		r.Post("/purchases/{id}/order", h.lifecycle(h.service.MarkOrdered))
		r.Post("/purchases/{id}/receive", h.lifecycle(h.service.Receive))
		r.Post("/purchases/{id}/cancel", h.lifecycle(h.service.Cancel))
	})
}

type purchaseRequest struct {
	SupplierID   int64   `json:"supplier_id" validate:"required,gt=0"`
	MaterialName string  `json:"material_name" validate:"required,max=100"`
	QuantityM2   float64 `json:"quantity_m2" validate:"required,gt=0"`
	UnitCost     float64 `json:"unit_cost" validate:"required,gt=0"`
	Note         string  `json:"note" validate:"max=500"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.ActorFromContext(r.Context())
	out, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purchases": out})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.ActorFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid purchase id")
		return
	}
	p, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.ActorFromContext(r.Context())
	var req purchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), actor, CreateInput{
		SupplierID:   req.SupplierID,
		MaterialName: req.MaterialName,
		QuantityM2:   req.QuantityM2,
		UnitCost:     req.UnitCost,
		Note:         req.Note,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) lifecycle(op func(context.Context, shared.Actor, int64) (*Purchase, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := shared.ActorFromContext(r.Context())
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid purchase id")
			return
		}
		p, err := op(r.Context(), actor, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, p)
	}
}
