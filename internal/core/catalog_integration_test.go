package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"refillpos/internal/core"

	"github.com/shopspring/decimal"
)

func TestCatalogService_PriceHistory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	catalog := core.NewCatalogService(pool)
	ctx := context.Background()

	p, err := catalog.CreateProduct(ctx, "10L water", decimal.NewFromInt(70), nil)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	history, err := catalog.GetPriceHistory(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPriceHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 initial price row, got %d", len(history))
	}
	if history[0].OldPrice != nil || history[0].Reason != "initial" {
		t.Errorf("Unexpected initial price row: %+v", history[0])
	}

	newPrice := decimal.NewFromInt(75)
	if _, err := catalog.UpdateProduct(ctx, p.ID, nil, &newPrice, nil); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	// A name-only patch must not add a history row.
	name := "10L water jug"
	if _, err := catalog.UpdateProduct(ctx, p.ID, &name, nil, nil); err != nil {
		t.Fatalf("UpdateProduct name failed: %v", err)
	}

	history, err = catalog.GetPriceHistory(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPriceHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 price rows, got %d", len(history))
	}
	// Newest first.
	if history[0].Reason != "update" {
		t.Errorf("Expected newest row first, got reason %q", history[0].Reason)
	}
	if history[0].OldPrice == nil || !history[0].OldPrice.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected old price 70, got %v", history[0].OldPrice)
	}
	if !history[0].NewPrice.Equal(newPrice) {
		t.Errorf("Expected new price 75, got %s", history[0].NewPrice)
	}
}

func TestCatalogService_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	catalog := core.NewCatalogService(pool)
	ctx := context.Background()

	if _, err := catalog.GetProduct(ctx, 999); !errors.Is(err, core.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
	price := decimal.NewFromInt(1)
	if _, err := catalog.UpdateProduct(ctx, 999, nil, &price, nil); !errors.Is(err, core.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
	if err := catalog.DeleteProduct(ctx, 999); !errors.Is(err, core.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogService_DeleteKeepsSales(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	catalog := core.NewCatalogService(pool)
	orders := core.NewOrderService(pool)
	ctx := context.Background()

	if _, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 3, Quantity: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}

	if err := catalog.DeleteProduct(ctx, 3); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	// The sale survives with an empty joined name.
	all, err := orders.ListOrders(ctx, "", nil)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected the sale to survive product deletion, got %d orders", len(all))
	}
	if all[0].ProductName != "" {
		t.Errorf("Expected empty product name after deletion, got %q", all[0].ProductName)
	}
}

func TestUserService_LoginLite(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := core.NewUserService(pool)
	ctx := context.Background()

	admin, err := users.CreateUser(ctx, "admin", "s3cret", core.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser admin failed: %v", err)
	}
	if admin.PasswordHash == "" || admin.PasswordHash == "s3cret" {
		t.Error("Expected a hashed password on the admin account")
	}

	// Admin needs the right password.
	if _, err := users.Login(ctx, "admin", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	got, err := users.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("Admin login failed: %v", err)
	}
	if got.Role != core.RoleAdmin {
		t.Errorf("Expected admin role, got %q", got.Role)
	}

	// Unknown operator is auto-created passwordless.
	op, err := users.Login(ctx, "counter2", "")
	if err != nil {
		t.Fatalf("Operator login failed: %v", err)
	}
	if op.Role != core.RoleUser || op.PasswordHash != "" {
		t.Errorf("Expected passwordless operator, got %+v", op)
	}
	again, err := users.Login(ctx, "counter2", "anything")
	if err != nil {
		t.Fatalf("Second operator login failed: %v", err)
	}
	if again.ID != op.ID {
		t.Errorf("Expected the same account on re-login, got %d and %d", op.ID, again.ID)
	}

	// Guests get generated throwaway usernames.
	guest, err := users.CreateGuest(ctx)
	if err != nil {
		t.Fatalf("CreateGuest failed: %v", err)
	}
	if !strings.HasPrefix(guest.Username, "guest-") {
		t.Errorf("Expected guest- prefix, got %q", guest.Username)
	}
	guest2, err := users.CreateGuest(ctx)
	if err != nil {
		t.Fatalf("Second CreateGuest failed: %v", err)
	}
	if guest.Username == guest2.Username {
		t.Error("Expected distinct guest usernames")
	}
}
