package repository

import (
	"database/sql"
	"errors"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	"github.com/google/uuid"
)

type VehicleRepository interface {
	GetVehicleByID(id uuid.UUID) (*entity.Vehicle, error)
	GetDiscountRule(vehicleID uuid.UUID) (*entity.DiscountRule, error)
	UpsertDiscountRule(rule *entity.DiscountRule) error
	ListVehicles(limit, offset int) ([]entity.Vehicle, error)
	CountVehicles() (int, error)
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetVehicleByID(id uuid.UUID) (*entity.Vehicle, error) {
	var v entity.Vehicle

	query := `
		SELECT id, make, model, year, mileage, engine_type, transmission, body_type, color, price, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`
	err := r.db.QueryRow(query, id).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Mileage, &v.EngineType,
		&v.Transmission, &v.BodyType, &v.Color, &v.Price, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetDiscountRule returns nil without error when no rule is configured
// for the vehicle.
func (r *vehicleRepository) GetDiscountRule(vehicleID uuid.UUID) (*entity.DiscountRule, error) {
	var rule entity.DiscountRule

	query := `
		SELECT id, vehicle_id, max_discount_percentage, min_price_allowed
		FROM discount_rules
		WHERE vehicle_id = $1
	`
	err := r.db.QueryRow(query, vehicleID).Scan(
		&rule.ID, &rule.VehicleID, &rule.MaxDiscountPercentage, &rule.MinPriceAllowed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *vehicleRepository) UpsertDiscountRule(rule *entity.DiscountRule) error {
	query := `
		INSERT INTO discount_rules (id, vehicle_id, max_discount_percentage, min_price_allowed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vehicle_id) DO UPDATE
		SET max_discount_percentage = EXCLUDED.max_discount_percentage,
		    min_price_allowed = EXCLUDED.min_price_allowed
	`
	_, err := r.db.Exec(query, rule.ID, rule.VehicleID, rule.MaxDiscountPercentage, rule.MinPriceAllowed)
	return err
}

func (r *vehicleRepository) ListVehicles(limit, offset int) ([]entity.Vehicle, error) {
	query := `
		SELECT id, make, model, year, mileage, engine_type, transmission, body_type, color, price, created_at, updated_at
		FROM vehicles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []entity.Vehicle{}
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.Mileage, &v.EngineType,
			&v.Transmission, &v.BodyType, &v.Color, &v.Price, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) CountVehicles() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM vehicles`).Scan(&count)
	return count, err
}
