// Seed writes starter product and cart documents so the service has
// collections to open. Existing documents are left alone.
package main

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"FlatMart/internal/cart"
	"FlatMart/internal/catalog"
	"FlatMart/internal/store"
	"FlatMart/pkg/kit"
)

func main() {
	log := kit.NewLogger("flatmart-seed")
	defer func() { _ = log.Sync() }()

	dataDir := getenv("DATA_DIR", "./data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal("create data dir", zap.Error(err))
	}

	products := store.Open[catalog.Product](filepath.Join(dataDir, "products.json"))
	if missing(products.Load()) {
		if err := products.Save(starterProducts()); err != nil {
			log.Fatal("seed products", zap.Error(err))
		}
		log.Info("seeded document", zap.String("path", products.Path()))
	}

	carts := store.Open[cart.Cart](filepath.Join(dataDir, "carts.json"))
	if missing(carts.Load()) {
		if err := carts.Save([]cart.Cart{}); err != nil {
			log.Fatal("seed carts", zap.Error(err))
		}
		log.Info("seeded document", zap.String("path", carts.Path()))
	}
}

func missing[T any](_ []T, err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func starterProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:          1,
			Title:       "Running shoe",
			Description: "Lightweight mesh runner",
			Price:       59.90,
			Keywords:    []string{"shoe", "running", "sport"},
			Owner:       "admin@flatmart.local",
		},
		{
			ID:          2,
			Title:       "Trail shoe",
			Description: "Grippy outsole for rough ground",
			Price:       79.90,
			Keywords:    []string{"shoe", "trail", "outdoor"},
			Owner:       "admin@flatmart.local",
		},
		{
			ID:          3,
			Title:       "Wool socks",
			Description: "Three pack, merino",
			Price:       14.50,
			Keywords:    []string{"socks", "wool"},
			Owner:       "admin@flatmart.local",
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
