// README: Store catalog, proximity, and store-switch handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kart/internal/modules/storefront"
	"kart/internal/types"
)

type StoreHandler struct {
	registry *storefront.Registry
	sessions *Sessions
}

func NewStoreHandler(registry *storefront.Registry, sessions *Sessions) *StoreHandler {
	return &StoreHandler{registry: registry, sessions: sessions}
}

func storeView(st storefront.Store) gin.H {
	return gin.H{
		"store_id": st.ID,
		"name":     st.Name,
		"location": st.Location,
	}
}

func (h *StoreHandler) List(c *gin.Context) {
	stores := h.registry.All()
	views := make([]gin.H, len(stores))
	for i, st := range stores {
		views[i] = storeView(st)
	}
	writeJSON(c, http.StatusOK, gin.H{"stores": views})
}

func (h *StoreHandler) Nearby(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, "invalid coordinates")
		return
	}
	radius := 5.0
	if r := c.Query("radius_km"); r != "" {
		if v, err := strconv.ParseFloat(r, 64); err == nil {
			radius = v
		}
	}
	stores := h.registry.Nearby(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radius)
	views := make([]gin.H, len(stores))
	for i, st := range stores {
		views[i] = storeView(st)
	}
	writeJSON(c, http.StatusOK, gin.H{"stores": views})
}

type locationReq struct {
	CustomerID string  `json:"customer_id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Location feeds a live position fix into the customer's proximity resolver
// and reports the outcome: active store plus any pending switch suggestion.
func (h *StoreHandler) Location(c *gin.Context) {
	var req locationReq
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
	sess := h.sessions.Get(types.ID(req.CustomerID))
	sess.Resolver.UpdateLocation(types.Point{Lat: req.Lat, Lng: req.Lng})

	resp := gin.H{"active_store": storeView(sess.Resolver.Active())}
	if pending, ok := sess.Resolver.Pending(); ok {
		resp["pending_switch"] = storeView(pending.Candidate)
	}
	writeJSON(c, http.StatusOK, resp)
}

type resolveSwitchReq struct {
	CustomerID string `json:"customer_id"`
	Accept     bool   `json:"accept"`
}

func (h *StoreHandler) ResolveSwitch(c *gin.Context) {
	var req resolveSwitchReq
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
	sess := h.sessions.Get(types.ID(req.CustomerID))
	if err := sess.Resolver.Resolve(req.Accept); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active_store": storeView(sess.Resolver.Active())})
}

type pinStoreReq struct {
	CustomerID string `json:"customer_id"`
	StoreID    string `json:"store_id"`
}

func (h *StoreHandler) Pin(c *gin.Context) {
	var req pinStoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" || req.StoreID == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	if !requireCaller(c, types.ID(req.CustomerID)) {
		return
	}
	sess := h.sessions.Get(types.ID(req.CustomerID))
	if err := sess.Resolver.Pin(types.ID(req.StoreID)); err != nil {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active_store": storeView(sess.Resolver.Active())})
}
