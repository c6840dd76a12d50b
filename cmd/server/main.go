package main

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"FlatMart/internal/authn"
	"FlatMart/internal/cart"
	"FlatMart/internal/catalog"
	"FlatMart/internal/events"
	"FlatMart/internal/server"
	"FlatMart/internal/store"
	"FlatMart/pkg/kit"
)

func main() {
	service := "flatmart"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	dataDir := getenv("DATA_DIR", "./data")

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET is required and must be at least 32 chars")
	}

	bus := events.NewBus()
	bus.Subscribe(func(ev events.Event) {
		log.Info("domain event",
			zap.String("event", ev.Name),
			zap.String("event_id", ev.ID),
			zap.Any("payload", ev.Payload),
		)
	})

	productsDoc := store.Open[catalog.Product](filepath.Join(dataDir, "products.json"))
	cartsDoc := store.Open[cart.Cart](filepath.Join(dataDir, "carts.json"))

	deps := server.Deps{
		Catalog: &catalog.Server{Manager: catalog.NewManager(productsDoc, bus, log), Log: log},
		Carts:   &cart.Server{Manager: cart.NewManager(cartsDoc, bus, log), Log: log},
		Tokens:  authn.NewTokenMaker(jwtSecret),
	}

	reg := prometheus.NewRegistry()
	h := server.NewHandler(deps, server.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
