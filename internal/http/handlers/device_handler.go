// README: Device-token registration for push notifications.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kart/internal/notify"
	"kart/internal/types"
)

type DeviceHandler struct {
	tokens *notify.TokenStore
}

func NewDeviceHandler(tokens *notify.TokenStore) *DeviceHandler {
	return &DeviceHandler{tokens: tokens}
}

type registerTokenReq struct {
	CustomerID string `json:"customer_id"`
	Token      string `json:"token"`
}

func (h *DeviceHandler) Register(c *gin.Context) {
	var req registerTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" || req.Token == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	if !requireCaller(c, types.ID(req.CustomerID)) {
		return
	}
	if h.tokens == nil {
		writeError(c, http.StatusServiceUnavailable, "notifications not configured")
		return
	}
	if err := h.tokens.Register(c.Request.Context(), types.ID(req.CustomerID), req.Token); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"registered": true})
}
