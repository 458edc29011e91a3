// README: Entry point; loads config, wires services, starts HTTP server and the
// lifecycle scheduler.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kart/internal/config"
	"kart/internal/geo"
	httptransport "kart/internal/http"
	"kart/internal/http/handlers"
	"kart/internal/infra"
	"kart/internal/maps"
	"kart/internal/modules/order"
	"kart/internal/modules/storefront"
	"kart/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	} else {
		log.Print("KART_FIREBASE_PROJECT_ID not set; auth disabled")
	}

	var notifier order.Notifier = notify.LogNotifier{}
	tokens := notify.NewTokenStore(redisClient)
	if cfg.Firebase.ProjectID != "" {
		msgClient, err := infra.NewMessaging(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("fcm init: %v", err)
		}
		notifier = notify.NewFCMNotifier(msgClient, tokens)
	}

	var routes *maps.RouteService
	var geocode *maps.GeocodeService
	if cfg.Maps.APIKey != "" {
		routes, err = maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		geocode, err = maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("geocode init: %v", err)
		}
	} else {
		log.Print("KART_MAPS_API_KEY not set; couriers walk straight lines")
	}

	archive := order.NewArchive(dbPool)
	feed := order.NewFeed(redisClient)
	orderStore := order.NewStore(archive, feed)
	orderSvc := order.NewService(orderStore)

	registry := storefront.NewRegistry(redisClient)
	registry.Seed(ctx, storefront.DefaultCatalog())

	sessions := handlers.NewSessions(registry, orderSvc)

	scheduler := order.NewScheduler(orderSvc, routeProvider(routes), notifier, cfg.Lifecycle)
	go scheduler.Run(ctx)
	go feed.RunInbound(ctx, orderSvc)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Order:    orderSvc,
		Archive:  archive,
		Registry: registry,
		Sessions: sessions,
		Geocode:  geocode,
		Tokens:   tokens,
		Verifier: verifier,
		Currency: "INR",
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	log.Printf("kart-api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// routeProvider avoids handing the scheduler a non-nil interface wrapping a
// nil *RouteService.
func routeProvider(svc *maps.RouteService) geo.RouteProvider {
	if svc == nil {
		return nil
	}
	return svc
}
