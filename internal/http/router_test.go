package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"kart/internal/http/handlers"
	"kart/internal/infra"
	"kart/internal/modules/order"
	"kart/internal/modules/storefront"
	"kart/internal/types"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*infra.FirebaseToken, error) {
	switch idToken {
	case "valid-token":
		return &infra.FirebaseToken{UID: "cust_1", Claims: map[string]interface{}{"role": "customer"}}, nil
	case "ops-token":
		return &infra.FirebaseToken{UID: "support_1", Claims: map[string]interface{}{"role": "ops"}}, nil
	}
	return nil, errors.New("invalid token")
}

type testEnv struct {
	router *gin.Engine
	orders *order.Service
}

func newTestEnv(verifier infra.TokenVerifier) testEnv {
	gin.SetMode(gin.TestMode)

	orderSvc := order.NewService(order.NewStore(nil, nil))
	registry := storefront.NewRegistry(nil)
	registry.Seed(context.Background(), storefront.DefaultCatalog())
	sessions := handlers.NewSessions(registry, orderSvc)

	router := NewRouter(RouterDeps{
		Order:    orderSvc,
		Registry: registry,
		Sessions: sessions,
		Verifier: verifier,
		Currency: "INR",
	})
	return testEnv{router: router, orders: orderSvc}
}

func (e testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func authed() map[string]string {
	return map[string]string{"Authorization": "Bearer valid-token"}
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	w := env.do(t, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("health = %d, want 200", w.Code)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	env := newTestEnv(stubVerifier{})

	w := env.do(t, http.MethodGet, "/api/orders?customer_id=cust_1", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/orders?customer_id=cust_1", nil,
		map[string]string{"Authorization": "Bearer wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/orders?customer_id=cust_1", nil, authed())
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRouter_NilVerifierDisablesAuth(t *testing.T) {
	env := newTestEnv(nil)
	w := env.do(t, http.MethodGet, "/api/orders?customer_id=cust_1", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("auth disabled = %d, want 200", w.Code)
	}
}

func TestRouter_CheckoutFlow(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	catalog := storefront.DefaultCatalog()

	for _, item := range []map[string]any{
		{
			"customer_id": "cust_1", "store_id": string(catalog[0].ID),
			"store_name": catalog[0].Name, "store_upi_id": catalog[0].UPIID,
			"store_lat": catalog[0].Location.Lat, "store_lng": catalog[0].Location.Lng,
			"name": "rice", "unit_price": 5000, "quantity": 2,
		},
		{
			"customer_id": "cust_1", "store_id": string(catalog[1].ID),
			"store_name": catalog[1].Name, "store_upi_id": catalog[1].UPIID,
			"store_lat": catalog[1].Location.Lat, "store_lng": catalog[1].Location.Lng,
			"name": "oil", "unit_price": 10000, "quantity": 1,
		},
	} {
		w := env.do(t, http.MethodPost, "/api/cart/items", item, authed())
		if w.Code != http.StatusOK {
			t.Fatalf("add item = %d: %s", w.Code, w.Body.String())
		}
	}

	w := env.do(t, http.MethodGet, "/api/cart?customer_id=cust_1", nil, authed())
	if w.Code != http.StatusOK {
		t.Fatalf("view cart = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"customer_id": "cust_1", "mode": "DELIVERY", "delivery_type": "INSTANT",
		"payment_method": "upi", "user_lat": 12.96, "user_lng": 77.63,
		"delivery_fee": 3500, "handling_fee": 1500,
	}, authed())
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OrderIDs []string `json:"order_ids"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.OrderIDs) != 2 {
		t.Fatalf("order_ids = %v, want 2 orders", resp.OrderIDs)
	}

	// second checkout against the now-empty cart fails
	w = env.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"customer_id": "cust_1", "mode": "DELIVERY",
	}, authed())
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty cart checkout = %d, want 400", w.Code)
	}

	orderID := resp.OrderIDs[0]

	w = env.do(t, http.MethodGet, "/api/orders/"+orderID, nil, authed())
	if w.Code != http.StatusOK {
		t.Errorf("get order = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/orders/"+orderID+"/track", nil, authed())
	if w.Code != http.StatusOK {
		t.Fatalf("track = %d", w.Code)
	}
	var track struct {
		Tracking bool `json:"tracking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &track); err != nil {
		t.Fatal(err)
	}
	if track.Tracking {
		t.Error("no courier should be tracking a pending order")
	}

	w = env.do(t, http.MethodPost, "/api/orders/"+orderID+"/cancel", nil, authed())
	if w.Code != http.StatusOK {
		t.Fatalf("cancel = %d: %s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPost, "/api/orders/"+orderID+"/cancel", nil, authed())
	if w.Code != http.StatusConflict {
		t.Errorf("double cancel = %d, want 409", w.Code)
	}
}

func TestRouter_CrossCustomerForbidden(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	id, err := env.orders.Create(context.Background(), order.CreateCommand{
		CustomerID: "cust_2", StoreID: "store_1", Mode: order.ModeDelivery,
		Items: []order.LineItem{{Name: "rice", UnitPrice: types.Money{Amount: 5000, Currency: "INR"}, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// caller is cust_1; everything keyed to cust_2 must be rejected
	for _, tc := range []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"list orders", http.MethodGet, "/api/orders?customer_id=cust_2", nil},
		{"history", http.MethodGet, "/api/orders/history?customer_id=cust_2", nil},
		{"view cart", http.MethodGet, "/api/cart?customer_id=cust_2", nil},
		{"add item", http.MethodPost, "/api/cart/items", map[string]any{
			"customer_id": "cust_2", "store_id": "store_1", "name": "rice", "unit_price": 5000, "quantity": 1,
		}},
		{"checkout", http.MethodPost, "/api/checkout", map[string]any{"customer_id": "cust_2", "mode": "DELIVERY"}},
		{"location", http.MethodPost, "/api/location", map[string]any{"customer_id": "cust_2", "lat": 12.96, "lng": 77.63}},
		{"get order", http.MethodGet, "/api/orders/" + string(id), nil},
		{"track order", http.MethodGet, "/api/orders/" + string(id) + "/track", nil},
		{"cancel order", http.MethodPost, "/api/orders/" + string(id) + "/cancel", nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, tc.method, tc.path, tc.body, authed())
			if w.Code != http.StatusForbidden {
				t.Errorf("%s = %d, want 403", tc.path, w.Code)
			}
		})
	}

	// the forbidden cancel must not have touched the order
	o, _ := env.orders.Get(id)
	if o.Status != order.StatusPending {
		t.Errorf("order mutated by forbidden call: %s", o.Status)
	}

	// the caller's own resources stay reachable
	w := env.do(t, http.MethodGet, "/api/orders?customer_id=cust_1", nil, authed())
	if w.Code != http.StatusOK {
		t.Errorf("own orders = %d, want 200", w.Code)
	}
}

func TestRouter_OpsRoleActsAcrossCustomers(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	id, err := env.orders.Create(context.Background(), order.CreateCommand{
		CustomerID: "cust_2", StoreID: "store_1", Mode: order.ModeDelivery,
		Items: []order.LineItem{{Name: "rice", UnitPrice: types.Money{Amount: 5000, Currency: "INR"}, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	ops := map[string]string{"Authorization": "Bearer ops-token"}
	w := env.do(t, http.MethodPost, "/api/orders/"+string(id)+"/cancel", nil, ops)
	if w.Code != http.StatusOK {
		t.Fatalf("ops cancel = %d: %s", w.Code, w.Body.String())
	}
	o, _ := env.orders.Get(id)
	if o.Status != order.StatusCancelled {
		t.Errorf("status = %s, want cancelled", o.Status)
	}
	if o.CancelledBy != "support" {
		t.Errorf("cancelled_by = %q, want support", o.CancelledBy)
	}
}

func TestRouter_OrderNotFound(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	w := env.do(t, http.MethodGet, "/api/orders/nope", nil, authed())
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order = %d, want 404", w.Code)
	}
}

func TestRouter_PickupConfirmOnDeliveryOrder(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	id, err := env.orders.Create(context.Background(), order.CreateCommand{
		CustomerID: "cust_1", StoreID: "store_1", Mode: order.ModeDelivery,
		Items: []order.LineItem{{Name: "rice", UnitPrice: types.Money{Amount: 5000, Currency: "INR"}, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodPost, "/api/orders/"+string(id)+"/pickup", nil, authed())
	if w.Code != http.StatusBadRequest {
		t.Errorf("pickup on delivery order = %d, want 400", w.Code)
	}
}

func TestRouter_StoreEndpoints(t *testing.T) {
	env := newTestEnv(stubVerifier{})

	w := env.do(t, http.MethodGet, "/api/stores", nil, authed())
	if w.Code != http.StatusOK {
		t.Errorf("stores = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/stores/nearby?lat=12.96&lng=77.63&radius_km=50", nil, authed())
	if w.Code != http.StatusOK {
		t.Errorf("nearby = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/location", map[string]any{
		"customer_id": "cust_1", "lat": 12.96, "lng": 77.63,
	}, authed())
	if w.Code != http.StatusOK {
		t.Errorf("location = %d: %s", w.Code, w.Body.String())
	}

	// no pending switch to resolve yet
	w = env.do(t, http.MethodPost, "/api/stores/switch", map[string]any{
		"customer_id": "cust_1", "accept": true,
	}, authed())
	if w.Code != http.StatusNotFound {
		t.Errorf("switch without suggestion = %d, want 404", w.Code)
	}
}

func TestRouter_GeocodeUnconfigured(t *testing.T) {
	env := newTestEnv(stubVerifier{})
	w := env.do(t, http.MethodGet, "/api/geocode?address=indiranagar", nil, authed())
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("geocode without key = %d, want 503", w.Code)
	}
}
