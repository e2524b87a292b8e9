package repository

import (
	"database/sql"
	"errors"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	"github.com/google/uuid"
)

type NegotiationRepository interface {
	CreateNegotiationWithOffer(n *entity.Negotiation, o *entity.Offer) error
	GetNegotiationByID(id uuid.UUID) (*entity.Negotiation, error)
	FindActiveByBuyerAndVehicle(buyerID, vehicleID uuid.UUID) (*entity.Negotiation, error)
	UpdateNegotiationStatus(id uuid.UUID, status entity.NegotiationStatus, finalPrice *float64) error
	ListNegotiationsByBuyer(buyerID uuid.UUID, limit, offset int) ([]entity.Negotiation, error)
	ListNegotiations(status entity.NegotiationStatus, limit, offset int) ([]entity.Negotiation, error)
	CountNegotiations() (int, error)
	CountNegotiationsByStatus(status entity.NegotiationStatus) (int, error)

	// Ledger: append-only, creation order. No update or delete.
	InsertOfferWithStatus(o *entity.Offer, status entity.NegotiationStatus) error
	GetLatestOffer(negotiationID uuid.UUID) (*entity.Offer, error)
	ListOffers(negotiationID uuid.UUID) ([]entity.Offer, error)
}

type negotiationRepository struct {
	db *sql.DB
}

func NewNegotiationRepository(db *sql.DB) NegotiationRepository {
	return &negotiationRepository{db: db}
}

// CreateNegotiationWithOffer inserts the negotiation and its opening
// offer in one transaction so a negotiation can never exist with an
// empty ledger.
func (r *negotiationRepository) CreateNegotiationWithOffer(n *entity.Negotiation, o *entity.Offer) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	negotiationQuery := `
		INSERT INTO negotiations (id, buyer_id, vehicle_id, status, final_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	if _, err := tx.Exec(negotiationQuery, n.ID, n.BuyerID, n.VehicleID, n.Status, n.FinalPrice); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec(insertOfferQuery, o.ID, o.NegotiationID, o.OfferedBy, o.Amount, o.Reason, o.CreatedAt); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *negotiationRepository) GetNegotiationByID(id uuid.UUID) (*entity.Negotiation, error) {
	var n entity.Negotiation

	query := `
		SELECT id, buyer_id, vehicle_id, status, final_price, created_at, updated_at
		FROM negotiations
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&n.ID, &n.BuyerID, &n.VehicleID, &n.Status, &n.FinalPrice, &n.CreatedAt, &n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *negotiationRepository) FindActiveByBuyerAndVehicle(buyerID, vehicleID uuid.UUID) (*entity.Negotiation, error) {
	var n entity.Negotiation

	query := `
		SELECT id, buyer_id, vehicle_id, status, final_price, created_at, updated_at
		FROM negotiations
		WHERE buyer_id = $1 AND vehicle_id = $2 AND status IN ('pending', 'ongoing')
		LIMIT 1
	`
	err := r.db.QueryRow(query, buyerID, vehicleID).Scan(
		&n.ID, &n.BuyerID, &n.VehicleID, &n.Status, &n.FinalPrice, &n.CreatedAt, &n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *negotiationRepository) UpdateNegotiationStatus(id uuid.UUID, status entity.NegotiationStatus, finalPrice *float64) error {
	query := `
		UPDATE negotiations
		SET status = $1, final_price = COALESCE($2, final_price), updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(query, status, finalPrice, id)
	return err
}

func (r *negotiationRepository) ListNegotiationsByBuyer(buyerID uuid.UUID, limit, offset int) ([]entity.Negotiation, error) {
	query := `
		SELECT id, buyer_id, vehicle_id, status, final_price, created_at, updated_at
		FROM negotiations
		WHERE buyer_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(query, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNegotiations(rows)
}

func (r *negotiationRepository) ListNegotiations(status entity.NegotiationStatus, limit, offset int) ([]entity.Negotiation, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		query := `
			SELECT id, buyer_id, vehicle_id, status, final_price, created_at, updated_at
			FROM negotiations
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.Query(query, status, limit, offset)
	} else {
		query := `
			SELECT id, buyer_id, vehicle_id, status, final_price, created_at, updated_at
			FROM negotiations
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.Query(query, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNegotiations(rows)
}

func scanNegotiations(rows *sql.Rows) ([]entity.Negotiation, error) {
	negotiations := []entity.Negotiation{}
	for rows.Next() {
		var n entity.Negotiation
		if err := rows.Scan(&n.ID, &n.BuyerID, &n.VehicleID, &n.Status, &n.FinalPrice, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		negotiations = append(negotiations, n)
	}
	return negotiations, rows.Err()
}

func (r *negotiationRepository) CountNegotiations() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM negotiations`).Scan(&count)
	return count, err
}

func (r *negotiationRepository) CountNegotiationsByStatus(status entity.NegotiationStatus) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM negotiations WHERE status = $1`, status).Scan(&count)
	return count, err
}

const insertOfferQuery = `
	INSERT INTO negotiation_offers (id, negotiation_id, offered_by, amount, reason, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// InsertOfferWithStatus appends a ledger entry and moves the
// negotiation to the given status in one transaction; a failed append
// leaves the status untouched and vice versa.
func (r *negotiationRepository) InsertOfferWithStatus(o *entity.Offer, status entity.NegotiationStatus) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(insertOfferQuery, o.ID, o.NegotiationID, o.OfferedBy, o.Amount, o.Reason, o.CreatedAt); err != nil {
		tx.Rollback()
		return err
	}

	statusQuery := `UPDATE negotiations SET status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.Exec(statusQuery, status, o.NegotiationID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *negotiationRepository) GetLatestOffer(negotiationID uuid.UUID) (*entity.Offer, error) {
	var o entity.Offer

	// ULID ids break ties between offers created in the same instant.
	query := `
		SELECT id, negotiation_id, offered_by, amount, reason, created_at
		FROM negotiation_offers
		WHERE negotiation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	err := r.db.QueryRow(query, negotiationID).Scan(
		&o.ID, &o.NegotiationID, &o.OfferedBy, &o.Amount, &o.Reason, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *negotiationRepository) ListOffers(negotiationID uuid.UUID) ([]entity.Offer, error) {
	query := `
		SELECT id, negotiation_id, offered_by, amount, reason, created_at
		FROM negotiation_offers
		WHERE negotiation_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, negotiationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []entity.Offer{}
	for rows.Next() {
		var o entity.Offer
		if err := rows.Scan(&o.ID, &o.NegotiationID, &o.OfferedBy, &o.Amount, &o.Reason, &o.CreatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
