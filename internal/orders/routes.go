package orders

import (
	"github.com/go-chi/chi/v5"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// MountRoutes registers the order engine endpoints. All routes require an
// authenticated actor; forward transitions and catalog-affecting mutations
// are admin-only, edit requests and reviews belong to the owning customer.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated())
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/accessories", h.Accessories)
		r.Get("/{id}/invoice", h.InvoiceView)
		r.Post("/{id}/edit-request", h.RequestEdit)
		r.Post("/{id}/review", h.Review)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireRole(shared.RoleAdmin))
		r.Post("/{id}/edit", h.Update)
		r.Post("/{id}/approve", h.transitionEndpoint(StatusApproved))
		r.Post("/{id}/reject", h.transitionEndpoint(StatusRejected))
		r.Post("/{id}/send-to-factory", h.transitionEndpoint(StatusFactoryOrdered))
		r.Post("/{id}/schedule", h.transitionEndpoint(StatusProcessing))
		r.Post("/{id}/mark-shipped", h.transitionEndpoint(StatusFactoryShipped))
		r.Post("/{id}/mark-ready", h.transitionEndpoint(StatusReadyForDelivery))
		r.Post("/{id}/confirm-delivered", h.transitionEndpoint(StatusDelivered))
		r.Post("/{id}/price-override", h.PriceOverride)
		r.Post("/{id}/archive", h.archiveEndpoint(true))
		r.Post("/{id}/unarchive", h.archiveEndpoint(false))
	})
}
