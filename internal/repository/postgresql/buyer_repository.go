package repository

import (
	"database/sql"

	"github.com/google/uuid"
)

// BuyerStats aggregates one buyer's order and negotiation history.
// The engine only ever reads these tables.
type BuyerStats struct {
	OrderCount             int
	PaidOrderCount         int
	TotalPaid              float64
	NegotiationCount       int
	AcceptedNegotiationCnt int
}

type BuyerRepository interface {
	GetBuyerStats(buyerID uuid.UUID) (*BuyerStats, error)
}

type buyerRepository struct {
	db *sql.DB
}

func NewBuyerRepository(db *sql.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

func (r *buyerRepository) GetBuyerStats(buyerID uuid.UUID) (*BuyerStats, error) {
	var stats BuyerStats

	orderQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'paid'),
		       COALESCE(SUM(price) FILTER (WHERE status = 'paid'), 0)
		FROM orders
		WHERE user_id = $1
	`
	if err := r.db.QueryRow(orderQuery, buyerID).Scan(
		&stats.OrderCount, &stats.PaidOrderCount, &stats.TotalPaid,
	); err != nil {
		return nil, err
	}

	negQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'accepted')
		FROM negotiations
		WHERE buyer_id = $1
	`
	if err := r.db.QueryRow(negQuery, buyerID).Scan(
		&stats.NegotiationCount, &stats.AcceptedNegotiationCnt,
	); err != nil {
		return nil, err
	}

	return &stats, nil
}
