package orders

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abjour-erp/abjour-erp/internal/observability"
	"github.com/abjour-erp/abjour-erp/internal/platform/httpx"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Handler wires the JSON endpoints of the order engine.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    shared.Authz
	metrics  *observability.Metrics
}

// NewHandler constructs the orders handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate, authz shared.Authz, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, validate: validate, authz: authz, metrics: metrics}
}

func (h *Handler) actor(r *http.Request) (shared.Actor, bool) {
	return shared.ActorFromContext(r.Context())
}

func (h *Handler) orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	q := r.URL.Query()

	req := ListOrdersRequest{Limit: 50}
	if v := q.Get("status"); v != "" {
		st := Status(v)
		if !st.IsValid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
			return
		}
		req.Status = &st
	}
	if q.Get("include_archived") == "true" {
		req.IncludeArchived = true
	}
	if q.Get("edit_requested") == "true" {
		t := true
		req.EditRequested = &t
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			req.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			req.Offset = n
		}
	}

	list, total, err := h.service.List(r.Context(), actor, req)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListOrdersResponse{Orders: list, Total: total, Limit: req.Limit, Offset: req.Offset})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	o, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		h.logger.Error("create order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

// transitionEndpoint builds a handler for one fixed-target transition.
func (h *Handler) transitionEndpoint(to Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := h.actor(r)
		id, err := h.orderID(r)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
			return
		}
		req := TransitionRequest{To: to}
		if to == StatusProcessing {
			var body ScheduleRequest
			if err := httpx.DecodeJSON(r, &body); err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
				return
			}
			if err := h.validate.Struct(body); err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
				return
			}
			req.LeadDays = body.LeadDays
		}
		o, err := h.service.Transition(r.Context(), actor, id, req)
		h.metrics.ObserveTransition(string(to), err)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, o)
	}
}

func (h *Handler) PriceOverride(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	var req PriceOverrideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.service.SetPriceOverride(r.Context(), actor, id, req.PricePerSquareMeter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) archiveEndpoint(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := h.actor(r)
		id, err := h.orderID(r)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
			return
		}
		o, err := h.service.SetArchived(r.Context(), actor, id, archived)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, o)
	}
}

func (h *Handler) RequestEdit(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	o, err := h.service.RequestEdit(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	var req ReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.service.SubmitReview(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) Accessories(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	lines, err := h.service.ProposeAccessories(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accessories": lines})
}

func (h *Handler) InvoiceView(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.actor(r)
	id, err := h.orderID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	o, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildInvoice(*o))
}
