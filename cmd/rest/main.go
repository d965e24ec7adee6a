package main

import (
	"context"
	"log"

	"github.com/CodeTanzania/emis-feature/internal/bootstrap"
	"github.com/CodeTanzania/emis-feature/internal/config"
	"github.com/CodeTanzania/emis-feature/internal/server"
	"github.com/CodeTanzania/emis-feature/internal/tracer"
	"github.com/CodeTanzania/emis-feature/pkg/database"
)

func main() {
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
	if err := container.RelayService.Relay(context.Background()); err != nil {
		log.Printf("Background relay error: %v", err)
	}

	// 5. Initialize and Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
