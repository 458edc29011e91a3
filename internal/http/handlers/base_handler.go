// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kart/internal/http/middleware"
	"kart/internal/modules/checkout"
	"kart/internal/modules/order"
	"kart/internal/modules/storefront"
	"kart/internal/types"
)

// roleOps marks support staff who may act on any customer's behalf.
const roleOps = "ops"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// callerAllowed reports whether the authenticated caller may act for the
// given customer. With auth disabled there is no verified identity and any
// customer id is accepted; ops callers may act across customers.
func callerAllowed(c *gin.Context, customerID types.ID) bool {
	if middleware.CallerRole(c) == roleOps {
		return true
	}
	uid := middleware.CallerUID(c)
	return uid == "" || uid == string(customerID)
}

// requireCaller writes the 403 response when the caller does not own the
// customer id they named. Returns true when the request may proceed.
func requireCaller(c *gin.Context, customerID types.ID) bool {
	if callerAllowed(c, customerID) {
		return true
	}
	writeError(c, http.StatusForbidden, "forbidden")
	return false
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidFees),
		errors.Is(err, checkout.ErrMixedCurrency):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, storefront.ErrNoPendingSwitch):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
