package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"refillpos/internal/core"

	"github.com/shopspring/decimal"
)

func TestOrderService_RecordOrderFromSource(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	movements := core.NewMovementService(pool)
	ctx := context.Background()

	// 2 × 5L water @ 40, drawn from the tank at factor 5.
	order, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1,
		Quantity:  decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}
	if !order.Total.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected total 80, got %s", order.Total)
	}
	if !order.UnitPrice.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected unit price snapshot 40, got %s", order.UnitPrice)
	}
	if order.PaymentMethod != "Cash" {
		t.Errorf("Expected default payment method Cash, got %q", order.PaymentMethod)
	}

	if got := sourceQuantity(t, pool, 1); !got.Equal(decimal.NewFromInt(8990)) {
		t.Errorf("Expected tank at 8990 after order, got %s", got)
	}

	refID := 1
	ms, err := movements.ListMovements(ctx, 10, core.MovementSource, &refID)
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("Expected 1 source movement, got %d", len(ms))
	}
	if !ms[0].Delta.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("Expected movement delta -10, got %s", ms[0].Delta)
	}
	if ms[0].Reason != "order:1" {
		t.Errorf("Expected reason order:1, got %q", ms[0].Reason)
	}
}

func TestOrderService_InsufficientStockRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	ctx := context.Background()

	// 2000 × factor 5 = 10000 needed, tank holds 9000.
	_, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1,
		Quantity:  decimal.NewFromInt(2000),
	})
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	// Nothing committed: tank untouched, no sale, no movement.
	if got := sourceQuantity(t, pool, 1); !got.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("Expected tank unchanged at 9000, got %s", got)
	}
	var sales, moves int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales").Scan(&sales); err != nil {
		t.Fatalf("Failed to count sales: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM movements").Scan(&moves); err != nil {
		t.Fatalf("Failed to count movements: %v", err)
	}
	if sales != 0 || moves != 0 {
		t.Errorf("Expected 0 sales and 0 movements after rollback, got %d and %d", sales, moves)
	}
}

func TestOrderService_InputValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	ctx := context.Background()

	_, err := orders.RecordOrder(ctx, core.OrderRequest{ProductID: 1, Quantity: decimal.Zero})
	if !errors.Is(err, core.ErrInvalidQuantity) {
		t.Errorf("Expected ErrInvalidQuantity for zero quantity, got %v", err)
	}

	_, err = orders.RecordOrder(ctx, core.OrderRequest{ProductID: 1, Quantity: decimal.NewFromInt(-1)})
	if !errors.Is(err, core.ErrInvalidQuantity) {
		t.Errorf("Expected ErrInvalidQuantity for negative quantity, got %v", err)
	}

	_, err = orders.RecordOrder(ctx, core.OrderRequest{ProductID: 999, Quantity: decimal.NewFromInt(1)})
	if !errors.Is(err, core.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	future := time.Now().UTC().Add(time.Hour).Format("2006-01-02T15:04:05")
	_, err = orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1, Quantity: decimal.NewFromInt(1), ClientTimestamp: future,
	})
	if !errors.Is(err, core.ErrFutureOrderDate) {
		t.Errorf("Expected ErrFutureOrderDate, got %v", err)
	}

	_, err = orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1, Quantity: decimal.NewFromInt(1), OrderDate: "junk",
	})
	if !errors.Is(err, core.ErrInvalidOrderDate) {
		t.Errorf("Expected ErrInvalidOrderDate, got %v", err)
	}
}

func TestOrderService_InventoryFallback(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	movements := core.NewMovementService(pool)
	ctx := context.Background()

	// Snack bar has no source mapping; its 5 units come from direct inventory.
	order, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 3,
		Quantity:  decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}
	if !order.Total.Equal(decimal.NewFromInt(125)) {
		t.Errorf("Expected total 125, got %s", order.Total)
	}
	if got := inventoryQuantity(t, pool, 3); !got.Equal(decimal.Zero) {
		t.Errorf("Expected inventory at 0, got %s", got)
	}

	refID := 3
	ms, err := movements.ListMovements(ctx, 10, core.MovementInventory, &refID)
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if len(ms) != 1 || ms[0].Reason != "order:3" {
		t.Fatalf("Expected 1 inventory movement with reason order:3, got %+v", ms)
	}

	// Stock is gone now.
	_, err = orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 3,
		Quantity:  decimal.NewFromInt(1),
	})
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Errorf("Expected ErrInsufficientStock, got %v", err)
	}
}

func TestOrderService_ContainerConsumption(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	movements := core.NewMovementService(pool)
	ctx := context.Background()

	// 2 × 5L water with customer taking new bottles at 15 each.
	order, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID:      1,
		Quantity:       decimal.NewFromInt(2),
		UseContainer:   true,
		ContainerPrice: decimal.NewFromInt(15),
	})
	if err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}
	if order.BottlesUsed != 2 {
		t.Errorf("Expected 2 bottles used, got %d", order.BottlesUsed)
	}
	// 80 water + 2 × 15 bottles
	if !order.Total.Equal(decimal.NewFromInt(110)) {
		t.Errorf("Expected total 110, got %s", order.Total)
	}

	// Bottle stock drops on product 2 ("Empty 5L bottle").
	if got := inventoryQuantity(t, pool, 2); !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected 8 bottles left, got %s", got)
	}
	refID := 2
	ms, err := movements.ListMovements(ctx, 10, core.MovementInventory, &refID)
	if err != nil {
		t.Fatalf("ListMovements failed: %v", err)
	}
	if len(ms) != 1 || ms[0].Reason != "order_bottle:1" {
		t.Fatalf("Expected 1 bottle movement with reason order_bottle:1, got %+v", ms)
	}
}

func TestOrderService_PriceSnapshot(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	catalog := core.NewCatalogService(pool)
	ctx := context.Background()

	first, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1, Quantity: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}

	newPrice := decimal.NewFromInt(45)
	if _, err := catalog.UpdateProduct(ctx, 1, nil, &newPrice, nil); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	// The recorded sale keeps the old price; a new sale gets the new one.
	stored, err := orders.GetOrder(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !stored.UnitPrice.Equal(decimal.NewFromInt(40)) || !stored.Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Recorded sale changed: price %s total %s", stored.UnitPrice, stored.Total)
	}

	second, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1, Quantity: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("Second RecordOrder failed: %v", err)
	}
	if !second.UnitPrice.Equal(newPrice) {
		t.Errorf("Expected new price 45 on second sale, got %s", second.UnitPrice)
	}
}

func TestOrderService_TimestampPriority(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	ctx := context.Background()

	order, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID:       1,
		Quantity:        decimal.NewFromInt(1),
		OrderDate:       "2026-01-01",
		ClientTimestamp: "2026-02-01T09:30:00",
	})
	if err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}
	want := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	if !order.Timestamp.Equal(want) {
		t.Errorf("Expected client timestamp %s to win, got %s", want, order.Timestamp)
	}
	if order.ClientTimestamp == nil || *order.ClientTimestamp != "2026-02-01T09:30:00" {
		t.Errorf("Expected raw client timestamp persisted, got %v", order.ClientTimestamp)
	}
}

func TestOrderService_ListOrdersFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	users := core.NewUserService(pool)
	ctx := context.Background()

	operator, err := users.CreateUser(ctx, "counter1", "", core.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1, Quantity: decimal.NewFromInt(1), OrderDate: "2026-01-05",
	}); err != nil {
		t.Fatalf("RecordOrder 1 failed: %v", err)
	}
	if _, err := orders.RecordOrder(ctx, core.OrderRequest{
		ProductID: 1, Quantity: decimal.NewFromInt(1), OrderDate: "2026-01-06", CreatedBy: &operator.ID,
	}); err != nil {
		t.Fatalf("RecordOrder 2 failed: %v", err)
	}

	all, err := orders.ListOrders(ctx, "", nil)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(all))
	}
	// Newest first.
	if all[0].ID < all[1].ID {
		t.Error("Expected newest-first ordering")
	}
	if all[0].ProductName != "5L water" {
		t.Errorf("Expected joined product name, got %q", all[0].ProductName)
	}

	byDate, err := orders.ListOrders(ctx, "2026-01-05", nil)
	if err != nil {
		t.Fatalf("ListOrders by date failed: %v", err)
	}
	if len(byDate) != 1 {
		t.Errorf("Expected 1 order on 2026-01-05, got %d", len(byDate))
	}

	byUser, err := orders.ListOrders(ctx, "", &operator.ID)
	if err != nil {
		t.Fatalf("ListOrders by user failed: %v", err)
	}
	if len(byUser) != 1 {
		t.Errorf("Expected 1 order by operator, got %d", len(byUser))
	}
}

func TestReportingService_DailySummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewOrderService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := orders.RecordOrder(ctx, core.OrderRequest{
			ProductID: 1, Quantity: decimal.NewFromInt(2), OrderDate: "2026-01-10",
		}); err != nil {
			t.Fatalf("RecordOrder failed: %v", err)
		}
	}

	summary, err := reporting.DailySummary(ctx, "2026-01-10")
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}
	if !summary.TotalQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected quantity 6, got %s", summary.TotalQuantity)
	}
	if !summary.TotalMoney.Equal(decimal.NewFromInt(240)) {
		t.Errorf("Expected money 240, got %s", summary.TotalMoney)
	}

	empty, err := reporting.DailySummary(ctx, "2025-12-25")
	if err != nil {
		t.Fatalf("DailySummary for empty day failed: %v", err)
	}
	if !empty.TotalQuantity.IsZero() || !empty.TotalMoney.IsZero() {
		t.Errorf("Expected zero summary, got %+v", empty)
	}
}
