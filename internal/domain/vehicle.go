package entity

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Make         string    `db:"make" json:"make"`
	Model        string    `db:"model" json:"model"`
	Year         int       `db:"year" json:"year"`
	Mileage      int       `db:"mileage" json:"mileage"`
	EngineType   string    `db:"engine_type" json:"engine_type"`
	Transmission string    `db:"transmission" json:"transmission"`
	BodyType     string    `db:"body_type" json:"body_type"`
	Color        string    `db:"color" json:"color"`
	Price        float64   `db:"price" json:"price"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DiscountRule bounds how far a vehicle's price may drop during
// negotiation. Read-only to the engine; configured by the admin side.
type DiscountRule struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	VehicleID             uuid.UUID `db:"vehicle_id" json:"vehicle_id"`
	MaxDiscountPercentage float64   `db:"max_discount_percentage" json:"max_discount_percentage"`
	MinPriceAllowed       float64   `db:"min_price_allowed" json:"min_price_allowed"`
}

type SetDiscountRuleInput struct {
	MaxDiscountPercentage float64 `json:"max_discount_percentage" binding:"required,gt=0,lt=100"`
	MinPriceAllowed       float64 `json:"min_price_allowed" binding:"min=0"`
}

// BuyerProfile is a read-only projection of a buyer's history, used as
// decision-engine features.
type BuyerProfile struct {
	Rating           float64 `json:"rating"`
	PurchaseCount    int     `json:"purchase_count"`
	NegotiationCount int     `json:"negotiation_count"`
	TotalSpent       float64 `json:"total_spent"`
}
