// Command dump prints the operational tables as JSON on stdout, for quick
// inspection and ad-hoc backups.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

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

	svc := app.NewAppService(pool,
		core.NewUserService(pool),
		core.NewCatalogService(pool),
		core.NewOrderService(pool),
		core.NewStockService(pool),
		core.NewMovementService(pool),
		core.NewReportingService(pool),
	)

	snapshot, err := svc.DatabaseSnapshot(ctx)
	if err != nil {
		log.Fatalf("failed to dump database: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		log.Fatalf("failed to encode snapshot: %v", err)
	}
}
