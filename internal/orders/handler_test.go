package orders_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/catalog"
	"github.com/abjour-erp/abjour-erp/internal/observability"
	"github.com/abjour-erp/abjour-erp/internal/orders"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

var (
	adminActor    = shared.Actor{UserID: 1, Role: shared.RoleAdmin}
	customerActor = shared.Actor{UserID: 2, Role: shared.RoleUser}
)

type fixture struct {
	router  chi.Router
	service *orders.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	materials := catalog.NewService(catalog.NewMemoryRepository())
	_, err := materials.Create(context.Background(), catalog.Material{
		Name:                "Aluminium 5.8",
		BladeWidth:          5.8,
		PricePerSquareMeter: 120,
		Colors:              []string{"white"},
		StockM2:             500,
	})
	require.NoError(t, err)

	service := orders.NewService(orders.NewMemoryRepository(), materials, nil, nil, logger)
	handler := orders.NewHandler(logger, service, validator.New(), shared.Authz{Logger: logger}, observability.NewMetrics())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if v := req.Header.Get("X-Test-Actor"); v != "" {
				var actor shared.Actor
				require.NoError(t, json.Unmarshal([]byte(v), &actor))
				req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/orders", handler.MountRoutes)
	return &fixture{router: r, service: service}
}

func (f *fixture) do(t *testing.T, actor *shared.Actor, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if actor != nil {
		data, err := json.Marshal(actor)
		require.NoError(t, err)
		req.Header.Set("X-Test-Actor", string(data))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"customer_name": "Rami Haddad",
	"customer_phone": "+961-3-123456",
	"abjour_type": "Aluminium 5.8",
	"main_color": "white",
	"openings": [{"width": 103.5, "height": 150}],
	"has_delivery": true
}`

func (f *fixture) createOrder(t *testing.T) orders.Order {
	t.Helper()
	rec := f.do(t, &customerActor, http.MethodPost, "/orders", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	return o
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)
	require.Equal(t, orders.StatusPending, o.Status)
	require.InDelta(t, 1.624, o.TotalArea, 1e-9)
	require.NotEmpty(t, o.Name)
}

func TestListEmptyReturnsEmptyArray(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, &adminActor, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"orders":[]`)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, nil, http.MethodPost, "/orders", createBody)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, &customerActor, http.MethodPost, "/orders", `{"customer_name": "X"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestTransitionEndpointsRoleGated(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)

	path := fmt.Sprintf("/orders/%d/approve", o.ID)
	rec := f.do(t, &customerActor, http.MethodPost, path, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, &adminActor, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, orders.StatusApproved, updated.Status)
}

func TestScheduleEndpointNeedsLeadDays(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)

	for _, step := range []string{"approve", "send-to-factory"} {
		rec := f.do(t, &adminActor, http.MethodPost, fmt.Sprintf("/orders/%d/%s", o.ID, step), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := f.do(t, &adminActor, http.MethodPost, fmt.Sprintf("/orders/%d/schedule", o.ID), `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, &adminActor, http.MethodPost, fmt.Sprintf("/orders/%d/schedule", o.ID), `{"lead_days": 10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestInvalidTransitionMapsTo422(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)

	rec := f.do(t, &adminActor, http.MethodPost, fmt.Sprintf("/orders/%d/confirm-delivered", o.ID), "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestShowEnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)

	stranger := shared.Actor{UserID: 99, Role: shared.RoleUser}
	rec := f.do(t, &stranger, http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, &adminActor, http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, &adminActor, http.MethodGet, "/orders/424242", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccessoriesEndpoint(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)

	rec := f.do(t, &customerActor, http.MethodGet, fmt.Sprintf("/orders/%d/accessories", o.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Accessories []orders.AccessoryLine `json:"accessories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Accessories)
}

func TestInvoiceEndpoint(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t)

	rec := f.do(t, &customerActor, http.MethodGet, fmt.Sprintf("/orders/%d/invoice", o.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "final_total")
}
