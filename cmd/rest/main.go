package main

import (
	"context"
	"log"

	"marketplace-be/internal/bootstrap"
	"marketplace-be/internal/config"
	"marketplace-be/internal/server"
	"marketplace-be/internal/tracer"
	"marketplace-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	color.Cyan("marketplace-be — commerce session & refund ledger service")

	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Reconcile Service...")
		if err := container.ReconcileService.Consume(context.Background()); err != nil {
			log.Printf("Background Reconcile Error: %v", err)
		}
	}()
	if container.EventFeedService != nil {
		go func() {
			log.Println("Background: Starting Event Feed...")
			if err := container.EventFeedService.Start(); err != nil {
				log.Printf("Background Event Feed Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
