// README: Forward/reverse geocoding handlers backed by the Maps adapter.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kart/internal/maps"
	"kart/internal/types"
)

type GeocodeHandler struct {
	geocode *maps.GeocodeService
}

func NewGeocodeHandler(svc *maps.GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{geocode: svc}
}

func (h *GeocodeHandler) Forward(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		writeError(c, http.StatusBadRequest, "missing address")
		return
	}
	if h.geocode == nil {
		writeError(c, http.StatusServiceUnavailable, "geocoding not configured")
		return
	}
	results, err := h.geocode.Forward(c.Request.Context(), address)
	if err != nil {
		writeError(c, http.StatusBadGateway, "geocoding failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"results": results})
}

func (h *GeocodeHandler) Reverse(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	if h.geocode == nil {
		writeError(c, http.StatusServiceUnavailable, "geocoding not configured")
		return
	}
	result, err := h.geocode.Reverse(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	if err != nil {
		writeError(c, http.StatusBadGateway, "reverse geocoding failed")
		return
	}
	writeJSON(c, http.StatusOK, result)
}
