// Package main implements a standalone seed script that writes a starter
// data file for the record server: a product catalog, an admin account and
// one demo user with empty cart and wishlist collections.
package main

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/salman-113/storefront/internal/domain"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	path := getEnv("RECORDD_DATA_FILE", "db.json")
	if _, err := os.Stat(path); err == nil && getEnv("SEED_FORCE", "") == "" {
		log.Fatalf("%s already exists; set SEED_FORCE=1 to overwrite", path)
	}

	now := time.Now().UTC()
	data := map[string]any{
		"products": seedProducts(),
		"users": []domain.UserRecord{
			{
				ID:        uuid.NewString(),
				Name:      "Admin",
				Email:     "admin@storefront.local",
				Password:  "admin123",
				Role:      domain.RoleAdmin,
				Cart:      domain.Collection{},
				Wishlist:  domain.Collection{},
				Orders:    []domain.Order{},
				CreatedAt: now,
			},
			{
				ID:        uuid.NewString(),
				Name:      "Demo User",
				Email:     "demo@storefront.local",
				Password:  "demo123",
				Role:      domain.RoleUser,
				Cart:      domain.Collection{},
				Wishlist:  domain.Collection{},
				Orders:    []domain.Order{},
				CreatedAt: now,
			},
		},
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatalf("encode seed data: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}

	log.Printf("seeded %s: %d products, 2 users", path, len(seedProducts()))
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: "p-001", Name: "Velvet Matte Lipstick", Price: 499, Category: "makeup", Description: "Long-wear matte finish", Images: []string{"/img/lipstick-velvet.jpg"}, Stock: 120},
		{ID: "p-002", Name: "Hydra Boost Serum", Price: 899, Category: "skincare", Description: "Hyaluronic acid face serum", Images: []string{"/img/serum-hydra.jpg"}, Stock: 80},
		{ID: "p-003", Name: "Silk Finish Foundation", Price: 1299, Category: "makeup", Description: "Buildable medium coverage", Images: []string{"/img/foundation-silk.jpg"}, Stock: 64},
		{ID: "p-004", Name: "Night Repair Cream", Price: 1599, Category: "skincare", Description: "Overnight restoring cream", Images: []string{"/img/cream-night.jpg"}, Stock: 45},
		{ID: "p-005", Name: "Rose Water Toner", Price: 349, Category: "skincare", Description: "Alcohol-free facial toner", Images: []string{"/img/toner-rose.jpg"}, Stock: 200},
		{ID: "p-006", Name: "Lash Curl Mascara", Price: 649, Category: "makeup", Description: "Waterproof lifting mascara", Images: []string{"/img/mascara-lash.jpg"}, Stock: 95},
		{ID: "p-007", Name: "Argan Hair Oil", Price: 749, Category: "haircare", Description: "Cold-pressed argan oil", Images: []string{"/img/oil-argan.jpg"}, Stock: 70},
		{ID: "p-008", Name: "Citrus Body Scrub", Price: 549, Category: "bodycare", Description: "Exfoliating sugar scrub", Images: []string{"/img/scrub-citrus.jpg"}, Stock: 110},
	}
}
