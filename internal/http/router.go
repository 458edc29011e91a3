// README: HTTP router registration on a gin engine.
package http

import (
	"github.com/gin-gonic/gin"

	"kart/internal/http/handlers"
	"kart/internal/http/middleware"
	"kart/internal/infra"
	"kart/internal/maps"
	"kart/internal/modules/order"
	"kart/internal/modules/storefront"
	"kart/internal/notify"
)

type RouterDeps struct {
	Order    *order.Service
	Archive  *order.Archive
	Registry *storefront.Registry
	Sessions *handlers.Sessions
	Geocode  *maps.GeocodeService
	Tokens   *notify.TokenStore
	Verifier infra.TokenVerifier
	Currency string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	orderHandler := handlers.NewOrderHandler(deps.Order, deps.Archive)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/history", orderHandler.History)
	api.GET("/orders/:id", orderHandler.Get)
	api.GET("/orders/:id/track", orderHandler.Track)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)
	api.POST("/orders/:id/pickup", orderHandler.ConfirmPickup)

	checkoutHandler := handlers.NewCheckoutHandler(deps.Sessions, deps.Currency)
	api.POST("/cart/items", checkoutHandler.AddItem)
	api.GET("/cart", checkoutHandler.ViewCart)
	api.POST("/checkout", checkoutHandler.Finalize)

	storeHandler := handlers.NewStoreHandler(deps.Registry, deps.Sessions)
	api.GET("/stores", storeHandler.List)
	api.GET("/stores/nearby", storeHandler.Nearby)
	api.POST("/location", storeHandler.Location)
	api.POST("/stores/switch", storeHandler.ResolveSwitch)
	api.POST("/stores/pin", storeHandler.Pin)

	geocodeHandler := handlers.NewGeocodeHandler(deps.Geocode)
	api.GET("/geocode", geocodeHandler.Forward)
	api.GET("/geocode/reverse", geocodeHandler.Reverse)

	deviceHandler := handlers.NewDeviceHandler(deps.Tokens)
	api.POST("/devices/token", deviceHandler.Register)

	return r
}
