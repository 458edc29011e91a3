// README: Cart and checkout handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kart/internal/modules/checkout"
	"kart/internal/modules/order"
	"kart/internal/types"
)

type CheckoutHandler struct {
	sessions *Sessions
	currency string
}

func NewCheckoutHandler(sessions *Sessions, currency string) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, currency: currency}
}

type addItemReq struct {
	CustomerID string  `json:"customer_id"`
	StoreID    string  `json:"store_id"`
	StoreName  string  `json:"store_name"`
	StoreUPIID string  `json:"store_upi_id"`
	StoreLat   float64 `json:"store_lat"`
	StoreLng   float64 `json:"store_lng"`
	Name       string  `json:"name"`
	UnitPrice  int64   `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" || req.StoreID == "" || req.Name == "" || req.Quantity <= 0 {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	if !requireCaller(c, types.ID(req.CustomerID)) {
		return
	}
	sess := h.sessions.Get(types.ID(req.CustomerID))
	sess.Cart.Add(checkout.CartItem{
		StoreID:       types.ID(req.StoreID),
		StoreName:     req.StoreName,
		StoreUPIID:    req.StoreUPIID,
		StoreLocation: types.Point{Lat: req.StoreLat, Lng: req.StoreLng},
		Name:          req.Name,
		UnitPrice:     types.Money{Amount: req.UnitPrice, Currency: h.currency},
		Quantity:      req.Quantity,
	})
	writeJSON(c, http.StatusOK, gin.H{"items": sess.Cart.Len()})
}

func (h *CheckoutHandler) ViewCart(c *gin.Context) {
	customerID := types.ID(c.Query("customer_id"))
	if customerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	if !requireCaller(c, customerID) {
		return
	}
	sess := h.sessions.Get(customerID)
	writeJSON(c, http.StatusOK, gin.H{"items": sess.Cart.Items()})
}

type finalizeReq struct {
	CustomerID      string  `json:"customer_id"`
	Mode            string  `json:"mode"`
	DeliveryType    string  `json:"delivery_type"`
	ScheduledAt     *string `json:"scheduled_at"`
	PaymentMethod   string  `json:"payment_method"`
	PayLater        bool    `json:"pay_later"`
	UserLat         float64 `json:"user_lat"`
	UserLng         float64 `json:"user_lng"`
	DeliveryFee     int64   `json:"delivery_fee"`
	HandlingFee     int64   `json:"handling_fee"`
	ExistingOrderID string  `json:"existing_order_id"`
}

// Finalize turns the cart plus payment outcome into orders, one per store.
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	var req finalizeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	if !requireCaller(c, types.ID(req.CustomerID)) {
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid scheduled_at")
			return
		}
		scheduledAt = &t
	}

	sess := h.sessions.Get(types.ID(req.CustomerID))
	ids, err := sess.Checkout.Finalize(c.Request.Context(), checkout.FinalizeCommand{
		CustomerID:      types.ID(req.CustomerID),
		Mode:            order.Mode(req.Mode),
		DeliveryType:    order.DeliveryType(req.DeliveryType),
		ScheduledAt:     scheduledAt,
		PaymentMethod:   req.PaymentMethod,
		PayLater:        req.PayLater,
		UserLocation:    types.Point{Lat: req.UserLat, Lng: req.UserLng},
		Fees: checkout.FeeConfig{
			DeliveryFee: types.Money{Amount: req.DeliveryFee, Currency: h.currency},
			HandlingFee: types.Money{Amount: req.HandlingFee, Currency: h.currency},
		},
		ExistingOrderID: types.ID(req.ExistingOrderID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"order_ids": ids})
}
