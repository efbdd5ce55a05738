package main

import (
	"log"
	"os"
	"time"

	"marketplace-be/internal/model"
	"marketplace-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a paid demo order per tenant so the refund flow can be exercised
// against a fresh database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	demoUserId := uuid.New()

	orders := []model.Order{
		{
			ID:            uuid.New(),
			TenantKey:     "acme-store",
			UserID:        demoUserId,
			PaymentRef:    "demo-acme-" + uuid.New().String()[:8],
			TotalCents:    10000,
			ShippingCents: 0,
			CreatedAt:     time.Now(),
			Items: []model.OrderItem{
				{ID: uuid.New(), ItemID: "itemA", UnitPriceCents: 3000, Quantity: 2},
				{ID: uuid.New(), ItemID: "itemB", UnitPriceCents: 4000, Quantity: 1},
			},
		},
		{
			ID:            uuid.New(),
			TenantKey:     "__global__",
			UserID:        demoUserId,
			PaymentRef:    "demo-global-" + uuid.New().String()[:8],
			TotalCents:    2500,
			ShippingCents: 500,
			CreatedAt:     time.Now(),
			Items: []model.OrderItem{
				{ID: uuid.New(), ItemID: "itemC", UnitPriceCents: 2000, Quantity: 1},
			},
		},
	}

	for _, order := range orders {
		if err := db.Create(&order).Error; err != nil {
			log.Fatalf("Error: Failed to seed order for tenant %s: %v", order.TenantKey, err)
		}
		log.Printf("Seeded order %s (tenant=%s, total=%d cents)", order.ID, order.TenantKey, order.TotalCents)
	}

	log.Println("✅ Success: Demo orders seeded.")
}
