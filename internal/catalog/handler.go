package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abjour-erp/abjour-erp/internal/platform/httpx"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Handler wires the material masterdata endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    shared.Authz
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate, authz shared.Authz) *Handler {
	return &Handler{logger: logger, service: service, validate: validate, authz: authz}
}

// MountRoutes registers catalog routes. Reads are open to any authenticated
// actor so customers can browse materials; mutations are admin-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated())
		r.Get("/materials", h.List)
		r.Get("/materials/{name}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(shared.RoleAdmin))
		r.Post("/materials", h.Create)
		r.Put("/materials/{name}", h.Update)
	})
}

type materialRequest struct {
	Name                string   `json:"name" validate:"required,max=100"`
	BladeWidth          float64  `json:"blade_width" validate:"required,gt=0"`
	PricePerSquareMeter float64  `json:"price_per_square_meter" validate:"required,gt=0"`
	Colors              []string `json:"colors" validate:"max=50,dive,max=50"`
	StockM2             float64  `json:"stock_m2" validate:"gte=0"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list materials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"materials": materials})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	m, err := h.service.Create(r.Context(), Material{
		Name:                req.Name,
		BladeWidth:          req.BladeWidth,
		PricePerSquareMeter: req.PricePerSquareMeter,
		Colors:              req.Colors,
		StockM2:             req.StockM2,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	m, err := h.service.Update(r.Context(), Material{
		Name:                chi.URLParam(r, "name"),
		BladeWidth:          req.BladeWidth,
		PricePerSquareMeter: req.PricePerSquareMeter,
		Colors:              req.Colors,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}
