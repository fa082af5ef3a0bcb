package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// MovementService exposes the read side of the audit trail. Writes happen
// only through recordMovementTx inside the stock and order transactions, so
// a movement row always commits together with the adjustment it documents.
type MovementService interface {
	// ListMovements returns recent movements newest-first, optionally
	// filtered by kind ("source" | "inventory") and/or reference id.
	ListMovements(ctx context.Context, limit int, kind string, refID *int) ([]Movement, error)
}

type movementService struct {
	pool *pgxpool.Pool
}

func NewMovementService(pool *pgxpool.Pool) MovementService {
	return &movementService{pool: pool}
}

// recordMovementTx appends one immutable audit row within the caller's TX.
func recordMovementTx(ctx context.Context, tx pgx.Tx, kind string, refID int,
	delta decimal.Decimal, reason string, userID *int) error {

	_, err := tx.Exec(ctx, `
		INSERT INTO movements (kind, ref_id, delta, reason, timestamp, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, kind, refID, delta, reason, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to insert %s movement for ref %d: %w", kind, refID, err)
	}
	return nil
}

func (s *movementService) ListMovements(ctx context.Context, limit int, kind string, refID *int) ([]Movement, error) {
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT id, kind, ref_id, delta, reason, timestamp, user_id FROM movements"
	var args []any
	if kind != "" {
		args = append(args, kind)
		query += fmt.Sprintf(" WHERE kind = $%d", len(args))
	}
	if refID != nil {
		args = append(args, *refID)
		if kind != "" {
			query += fmt.Sprintf(" AND ref_id = $%d", len(args))
		} else {
			query += fmt.Sprintf(" WHERE ref_id = $%d", len(args))
		}
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.Kind, &m.RefID, &m.Delta, &m.Reason, &m.Timestamp, &m.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}
