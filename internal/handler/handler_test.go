package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/service"
	"go-dulceria-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrders overrides the OrderService methods a test needs; the rest panic
type stubOrders struct {
	service.OrderService
	place   func(req *service.PlaceOrderRequest) (*service.PlacedOrder, error)
	track   func(number string) (*model.OrderTracking, error)
	update  func(id uuid.UUID, req *service.UpdateOrderRequest, actor string) (*model.Order, error)
	listing *service.OrderPage
}

func (s *stubOrders) PlaceOrder(_ context.Context, req *service.PlaceOrderRequest) (*service.PlacedOrder, error) {
	return s.place(req)
}

func (s *stubOrders) GetByNumber(_ context.Context, number string) (*model.OrderTracking, error) {
	return s.track(number)
}

func (s *stubOrders) Update(_ context.Context, id uuid.UUID, req *service.UpdateOrderRequest, actor string) (*model.Order, error) {
	return s.update(id, req, actor)
}

func (s *stubOrders) List(context.Context, service.ListOrdersQuery) (*service.OrderPage, error) {
	return s.listing, nil
}

type stubCoupons struct {
	service.CouponService
	validate func(code string, total int64) (*service.CouponDiscount, error)
}

func (s *stubCoupons) Validate(_ context.Context, code string, total int64) (*service.CouponDiscount, error) {
	return s.validate(code, total)
}

// stubAuth accepts the token "staff" with order:view only
type stubAuth struct{ userID uuid.UUID }

func (a stubAuth) Authenticate(_ context.Context, token string) (*model.User, *jwt.Claims, error) {
	if token != "staff" {
		return nil, nil, service.ErrInvalidToken
	}
	user := &model.User{Email: "caja@dulceria.co", IsActive: true, Privileges: []model.Privilege{{Code: model.PrivOrderView}}}
	user.ID = a.userID
	return user, &jwt.Claims{UserID: a.userID}, nil
}

func newTestApp(orders service.OrderService, coupons service.CouponService, auth stubAuth) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Register(app, Handlers{
		Catalog:   NewCatalogHandler(nil),
		Coupon:    NewCouponHandler(coupons),
		Order:     NewOrderHandler(orders),
		Promotion: NewPromotionHandler(nil),
		Auth:      NewAuthHandler(nil),
		User:      NewUserHandler(nil),
		Role:      NewRoleHandler(nil, nil),
		Dashboard: NewDashboardHandler(nil),
	}, auth)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestPlaceOrderRoute(t *testing.T) {
	var got *service.PlaceOrderRequest
	orders := &stubOrders{place: func(req *service.PlaceOrderRequest) (*service.PlacedOrder, error) {
		got = req
		return &service.PlacedOrder{ID: uuid.New(), OrderNumber: "PED-261016-ABC123", Total: 90000}, nil
	}}
	app := newTestApp(orders, nil, stubAuth{})

	body := `{"customer_name":"Ana","customer_phone":"300","selected_branch":"outlet",
		"items":[{"product_id":"` + uuid.NewString() + `","quantity":2}],"coupon_code":"VERANO10"}`
	status, out := doJSON(t, app, http.MethodPost, "/api/v1/orders", body, "")

	assert.Equal(t, http.StatusCreated, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "PED-261016-ABC123", data["order_number"])
	require.NotNil(t, got)
	assert.Equal(t, "VERANO10", got.CouponCode)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestPlaceOrderRouteErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"out of stock", service.ErrOutOfStock, http.StatusUnprocessableEntity, "out_of_stock"},
		{"coupon", service.ErrCouponExhausted, http.StatusUnprocessableEntity, "coupon_exhausted"},
		{"unknown coupon", service.ErrCouponNotFound, http.StatusNotFound, "coupon_not_found"},
		{"unexpected", assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &stubOrders{place: func(*service.PlaceOrderRequest) (*service.PlacedOrder, error) { return nil, tt.err }}
			app := newTestApp(orders, nil, stubAuth{})

			status, out := doJSON(t, app, http.MethodPost, "/api/v1/orders", `{}`, "")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, out["code"])
			assert.NotContains(t, out["error"], assert.AnError.Error())
		})
	}
}

func TestPlaceOrderRouteRejectsMalformedBody(t *testing.T) {
	app := newTestApp(&stubOrders{}, nil, stubAuth{})

	status, out := doJSON(t, app, http.MethodPost, "/api/v1/orders", `{"items":`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_json", out["code"])
}

func TestTrackOrderRoute(t *testing.T) {
	orders := &stubOrders{track: func(number string) (*model.OrderTracking, error) {
		if number == "PED-261016-ABC123" {
			return &model.OrderTracking{OrderNumber: number, Status: model.StatusConfirmed}, nil
		}
		return nil, service.ErrOrderNotFound
	}}
	app := newTestApp(orders, nil, stubAuth{})

	status, out := doJSON(t, app, http.MethodGet, "/api/v1/orders/PED-261016-ABC123", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", out["status"])

	status, out = doJSON(t, app, http.MethodGet, "/api/v1/orders/PED-000000-XXXXXX", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "order_not_found", out["code"])
}

func TestValidateCouponRoute(t *testing.T) {
	coupons := &stubCoupons{validate: func(code string, total int64) (*service.CouponDiscount, error) {
		if code != "VERANO10" {
			return nil, service.ErrCouponExpired
		}
		return &service.CouponDiscount{Code: code, DiscountAmount: total / 10}, nil
	}}
	app := newTestApp(nil, coupons, stubAuth{})

	status, out := doJSON(t, app, http.MethodPost, "/api/v1/coupons/validate", `{"code":"VERANO10","cart_total":100000}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["valid"])
	assert.EqualValues(t, 10000, out["discount_amount"])
	assert.EqualValues(t, 90000, out["total"])

	status, out = doJSON(t, app, http.MethodPost, "/api/v1/coupons/validate", `{"code":"NAVIDAD","cart_total":100000}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, false, out["valid"])
	assert.Equal(t, "coupon_expired", out["code"])
	assert.Equal(t, "Este cupón ha expirado", out["error"])
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	staffID := uuid.New()
	var actorSeen string
	orders := &stubOrders{
		listing: &service.OrderPage{Orders: []model.Order{}, Page: 1, PageSize: 20},
		update: func(_ uuid.UUID, _ *service.UpdateOrderRequest, actor string) (*model.Order, error) {
			actorSeen = actor
			return &model.Order{Status: model.StatusConfirmed}, nil
		},
	}
	app := newTestApp(orders, nil, stubAuth{userID: staffID})

	status, out := doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "missing_token", out["code"])

	status, out = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", "", "forged")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_token", out["code"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", "", "staff")
	assert.Equal(t, http.StatusOK, status)

	// order:view does not allow updates
	status, out = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+uuid.NewString(), `{"status":"confirmed"}`, "staff")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", out["code"])
	assert.Empty(t, actorSeen)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/coupons", "", "staff")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUnknownRouteUsesJSONErrors(t *testing.T) {
	app := newTestApp(nil, nil, stubAuth{})

	status, out := doJSON(t, app, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "http_error", out["code"])
}
