// README: Order handlers: list, get, track, cancel, pickup confirmation, history.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kart/internal/http/middleware"
	"kart/internal/modules/order"
	"kart/internal/types"
)

type OrderHandler struct {
	order   *order.Service
	archive *order.Archive
}

func NewOrderHandler(svc *order.Service, archive *order.Archive) *OrderHandler {
	return &OrderHandler{order: svc, archive: archive}
}

func orderView(o order.Order) gin.H {
	return gin.H{
		"order_id":       o.ID,
		"store_id":       o.StoreID,
		"store_name":     o.StoreName,
		"mode":           o.Mode,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"total":          o.Total.Amount,
		"currency":       o.Total.Currency,
		"created_at":     o.CreatedAt,
	}
}

// owned looks the order up and verifies the caller may act on it.
func (h *OrderHandler) owned(c *gin.Context, id types.ID) (order.Order, bool) {
	o, ok := h.order.Get(id)
	if !ok {
		writeDomainError(c, order.ErrNotFound)
		return order.Order{}, false
	}
	if !requireCaller(c, o.CustomerID) {
		return order.Order{}, false
	}
	return o, true
}

func (h *OrderHandler) List(c *gin.Context) {
	customerID := types.ID(c.Query("customer_id"))
	if customerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	if !requireCaller(c, customerID) {
		return
	}
	orders := h.order.ListByCustomer(customerID)
	views := make([]gin.H, len(orders))
	for i, o := range orders {
		views[i] = orderView(o)
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": views})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, ok := h.owned(c, types.ID(c.Param("id")))
	if !ok {
		return
	}
	view := orderView(o)
	view["items"] = o.Items
	view["split"] = gin.H{
		"store_amount": o.Split.StoreAmount.Amount,
		"delivery_fee": o.Split.DeliveryFee.Amount,
		"handling_fee": o.Split.HandlingFee.Amount,
		"store_upi_id": o.Split.StoreUPIID,
	}
	if o.Status == order.StatusCancelled {
		view["cancelled_by"] = o.CancelledBy
		view["cancel_reason"] = o.CancelReason
	}
	writeJSON(c, http.StatusOK, view)
}

// Track returns the live simulated courier position, if the order is on the way.
func (h *OrderHandler) Track(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if _, ok := h.owned(c, id); !ok {
		return
	}
	pos, live := h.order.DriverPosition(id)
	if !live {
		writeJSON(c, http.StatusOK, gin.H{"tracking": false})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"tracking":           true,
		"position":           pos.Position,
		"distance_remaining": pos.DistanceRemaining,
		"time_remaining_sec": int64(pos.TimeRemaining.Seconds()),
	})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if _, ok := h.owned(c, id); !ok {
		return
	}
	actor := "customer"
	if middleware.CallerRole(c) == roleOps {
		actor = "support"
	}
	err := h.order.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID:   id,
		ActorType: actor,
		Reason:    "user_cancel",
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusCancelled})
}

// ConfirmPickup is the counter handover for PICKUP orders.
func (h *OrderHandler) ConfirmPickup(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if _, ok := h.owned(c, id); !ok {
		return
	}
	err := h.order.ConfirmPickup(c.Request.Context(), order.ConfirmPickupCommand{OrderID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusPickedUp})
}

// History reads the customer's archived orders from Postgres.
func (h *OrderHandler) History(c *gin.Context) {
	customerID := types.ID(c.Query("customer_id"))
	if customerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	if !requireCaller(c, customerID) {
		return
	}
	if h.archive == nil {
		writeJSON(c, http.StatusOK, gin.H{"orders": []any{}})
		return
	}
	orders, err := h.archive.HistoryByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	views := make([]gin.H, len(orders))
	for i, o := range orders {
		views[i] = orderView(o)
	}
	writeJSON(c, http.StatusOK, gin.H{"orders": views})
}
