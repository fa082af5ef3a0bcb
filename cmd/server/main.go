package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "refillpos/internal/adapters/web"
	"refillpos/internal/app"
	"refillpos/internal/core"
	"refillpos/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	catalogService := core.NewCatalogService(pool)
	orderService := core.NewOrderService(pool)
	stockService := core.NewStockService(pool)
	movementService := core.NewMovementService(pool)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(pool, userService, catalogService, orderService,
		stockService, movementService, reportingService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, pool, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
