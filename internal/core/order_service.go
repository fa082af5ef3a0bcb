package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService records sales. RecordOrder is the transactional heart of the
// system: the price snapshot, the stock decrement, the container consumption,
// the movement rows and the sale row all commit atomically or not at all.
type OrderService interface {
	RecordOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// ListOrders returns sales newest-first, optionally filtered to one UTC
	// date (YYYY-MM-DD) and/or one creating user.
	ListOrders(ctx context.Context, date string, userID *int) ([]Order, error)
	GetOrder(ctx context.Context, orderID int) (*Order, error)
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

// RecordOrder validates the request, snapshots the current price, resolves
// which stock pool the product draws from, decrements it under a row lock,
// optionally consumes reusable containers, and inserts the sale. Everything
// happens inside one transaction; any failure rolls the whole order back.
func (s *orderService) RecordOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("order quantity %s: %w", req.Quantity.String(), ErrInvalidQuantity)
	}

	bottlesUsed, err := resolveContainerCount(req.ContainerCount, req.UseContainer, req.Quantity)
	if err != nil {
		return nil, err
	}

	timestamp, err := resolveOrderTimestamp(req.ClientTimestamp, req.OrderDate, time.Now())
	if err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Cash"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Price snapshot. The sale stores the price in force now; later catalog
	// edits never touch recorded sales.
	var productName string
	var unitPrice decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT name, unit_price FROM products WHERE id = $1",
		req.ProductID,
	).Scan(&productName, &unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", req.ProductID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", req.ProductID, err)
	}

	total := unitPrice.Mul(req.Quantity)

	// Per-bottle surcharge, only when the order asked for containers.
	bottlePrice := decimal.Zero
	if req.UseContainer && req.ContainerPrice.IsPositive() {
		bottlePrice = req.ContainerPrice
		total = total.Add(bottlePrice.Mul(decimal.NewFromInt(int64(bottlesUsed))))
	}

	// Decrement whichever stock pool the product draws from. The mapping is
	// resolved once here and reused for the container lookup below.
	mapping, err := resolveStockPool(ctx, tx, req.ProductID)
	if err != nil {
		return nil, err
	}
	orderReason := fmt.Sprintf("order:%d", req.ProductID)
	if mapping != nil {
		required := req.Quantity.Mul(mapping.Factor)
		if _, err := adjustSourceTx(ctx, tx, mapping.SourceID, required.Neg()); err != nil {
			return nil, err
		}
		if err := recordMovementTx(ctx, tx, MovementSource, mapping.SourceID, required.Neg(), orderReason, req.CreatedBy); err != nil {
			return nil, err
		}
	} else {
		if _, err := adjustInventoryTx(ctx, tx, req.ProductID, req.Quantity.Neg()); err != nil {
			return nil, err
		}
		if err := recordMovementTx(ctx, tx, MovementInventory, req.ProductID, req.Quantity.Neg(), orderReason, req.CreatedBy); err != nil {
			return nil, err
		}
	}

	// Consume empty-bottle stock when the order used containers. Missing
	// container product means nothing to track, not an error.
	if bottlesUsed > 0 {
		containerID, ok, err := findContainerProduct(ctx, tx, mapping)
		if err != nil {
			return nil, err
		}
		if ok {
			bottleDelta := decimal.NewFromInt(int64(bottlesUsed)).Neg()
			if _, err := adjustInventoryTx(ctx, tx, containerID, bottleDelta); err != nil {
				return nil, err
			}
			bottleReason := fmt.Sprintf("order_bottle:%d", req.ProductID)
			if err := recordMovementTx(ctx, tx, MovementInventory, containerID, bottleDelta, bottleReason, req.CreatedBy); err != nil {
				return nil, err
			}
		}
	}

	var clientTS *string
	if req.ClientTimestamp != "" {
		ts := req.ClientTimestamp
		clientTS = &ts
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (product_id, quantity, unit_price, total, payment_method,
		                   timestamp, created_by, bottles_used, bottle_price, client_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, req.ProductID, req.Quantity, unitPrice, total, paymentMethod,
		timestamp, req.CreatedBy, bottlesUsed, bottlePrice, clientTS).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return &Order{
		ID:              orderID,
		ProductID:       req.ProductID,
		ProductName:     productName,
		Quantity:        req.Quantity,
		UnitPrice:       unitPrice,
		Total:           total,
		PaymentMethod:   paymentMethod,
		Timestamp:       timestamp,
		CreatedBy:       req.CreatedBy,
		BottlesUsed:     bottlesUsed,
		BottlePrice:     bottlePrice,
		ClientTimestamp: clientTS,
	}, nil
}

const orderColumns = `
	s.id, s.product_id, COALESCE(p.name, ''), s.quantity, s.unit_price, s.total,
	s.payment_method, s.timestamp, s.created_by, s.bottles_used, s.bottle_price,
	s.client_timestamp`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ProductID, &o.ProductName, &o.Quantity, &o.UnitPrice,
		&o.Total, &o.PaymentMethod, &o.Timestamp, &o.CreatedBy, &o.BottlesUsed,
		&o.BottlePrice, &o.ClientTimestamp)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderService) ListOrders(ctx context.Context, date string, userID *int) ([]Order, error) {
	query := "SELECT " + orderColumns + `
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id`
	var args []any
	if date != "" {
		if _, err := time.Parse(dateOnlyLayout, date); err != nil {
			return nil, fmt.Errorf("unparsable date %q: %w", date, ErrInvalidOrderDate)
		}
		args = append(args, date)
		query += fmt.Sprintf(" WHERE (s.timestamp AT TIME ZONE 'UTC')::date = $%d::date", len(args))
	}
	if userID != nil {
		args = append(args, *userID)
		if date != "" {
			query += fmt.Sprintf(" AND s.created_by = $%d", len(args))
		} else {
			query += fmt.Sprintf(" WHERE s.created_by = $%d", len(args))
		}
	}
	query += " ORDER BY s.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, "SELECT "+orderColumns+`
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		WHERE s.id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	return o, nil
}
