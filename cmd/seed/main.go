// Command seed loads the starter catalog for a new store: the main refill
// tank, the standard bottle sizes with their source mappings, empty-bottle
// inventory, and the admin account. It refuses to run against a database
// that already has products so a re-run cannot duplicate the catalog.
package main

import (
	"context"
	"log"
	"os"

	"refillpos/internal/core"
	"refillpos/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		log.Fatalf("failed to inspect products table: %v", err)
	}
	if existing > 0 {
		log.Fatalf("database already has %d products; refusing to seed twice", existing)
	}

	users := core.NewUserService(pool)
	catalog := core.NewCatalogService(pool)
	stock := core.NewStockService(pool)

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}
	admin, err := users.CreateUser(ctx, "admin", adminPassword, core.RoleAdmin)
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}
	log.Printf("created admin user %d", admin.ID)

	// Passwordless counter account for day-to-day operators.
	operator, err := users.CreateUser(ctx, "user", "", core.RoleUser)
	if err != nil {
		log.Fatalf("failed to create operator: %v", err)
	}
	log.Printf("created operator user %d", operator.ID)

	tank, err := stock.AddSource(ctx, "Main Tank", "L", decimal.NewFromInt(10000))
	if err != nil {
		log.Fatalf("failed to create tank: %v", err)
	}
	log.Printf("created source %d %q with %s L", tank.ID, tank.Name, tank.Quantity)

	// Water products draw from the tank; factor is litres per sold unit.
	waters := []struct {
		name   string
		price  int64
		factor int64
	}{
		{"5L water", 40, 5},
		{"10L water", 70, 10},
		{"20L water", 120, 20},
	}
	for _, w := range waters {
		p, err := catalog.CreateProduct(ctx, w.name, decimal.NewFromInt(w.price), &admin.ID)
		if err != nil {
			log.Fatalf("failed to create product %q: %v", w.name, err)
		}
		if _, err := stock.SetProductSource(ctx, p.ID, tank.ID, decimal.NewFromInt(w.factor)); err != nil {
			log.Fatalf("failed to map product %q: %v", w.name, err)
		}
		log.Printf("created product %d %q at %s, factor %d", p.ID, p.Name, p.UnitPrice, w.factor)
	}

	// Empty bottles are countable stock tracked directly in inventory.
	bottles := []struct {
		name  string
		price int64
		stock int64
	}{
		{"Empty 5L bottle", 15, 120},
		{"Empty 10L bottle", 25, 80},
		{"Empty 20L bottle", 40, 40},
	}
	for _, b := range bottles {
		p, err := catalog.CreateProduct(ctx, b.name, decimal.NewFromInt(b.price), &admin.ID)
		if err != nil {
			log.Fatalf("failed to create product %q: %v", b.name, err)
		}
		if _, err := stock.SetInventory(ctx, p.ID, decimal.NewFromInt(b.stock)); err != nil {
			log.Fatalf("failed to set inventory for %q: %v", b.name, err)
		}
		log.Printf("created product %d %q with %d in stock", p.ID, p.Name, b.stock)
	}

	log.Println("seed complete")
}
