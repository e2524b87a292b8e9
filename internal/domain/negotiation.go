package entity

import (
	"time"

	"github.com/google/uuid"
)

type NegotiationStatus string

const (
	StatusPending   NegotiationStatus = "pending"
	StatusOngoing   NegotiationStatus = "ongoing"
	StatusAccepted  NegotiationStatus = "accepted"
	StatusRejected  NegotiationStatus = "rejected"
	StatusExpired   NegotiationStatus = "expired"
	StatusCancelled NegotiationStatus = "cancelled"
)

// Active reports whether the negotiation can still receive offers.
func (s NegotiationStatus) Active() bool {
	return s == StatusPending || s == StatusOngoing
}

// Terminal reports whether the negotiation reached a final state.
func (s NegotiationStatus) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// OfferActor identifies who authored an offer. Admin counters and
// model-generated counters are distinct values on purpose.
type OfferActor string

const (
	ActorBuyer          OfferActor = "BUYER"
	ActorAutomatedAgent OfferActor = "AI_AGENT"
	ActorAdmin          OfferActor = "ADMIN"
)

func (a OfferActor) Valid() bool {
	switch a {
	case ActorBuyer, ActorAutomatedAgent, ActorAdmin:
		return true
	}
	return false
}

type Negotiation struct {
	ID         uuid.UUID         `db:"id" json:"id"`
	BuyerID    uuid.UUID         `db:"buyer_id" json:"buyer_id"`
	VehicleID  uuid.UUID         `db:"vehicle_id" json:"vehicle_id"`
	Status     NegotiationStatus `db:"status" json:"status"`
	FinalPrice *float64          `db:"final_price" json:"final_price,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// Offer is one ledger entry. Offers are never updated or deleted; the
// ID is a monotonic ULID so lexicographic order matches creation order.
type Offer struct {
	ID            string     `db:"id" json:"id"`
	NegotiationID uuid.UUID  `db:"negotiation_id" json:"negotiation_id"`
	OfferedBy     OfferActor `db:"offered_by" json:"offered_by"`
	Amount        float64    `db:"amount" json:"amount"`
	Reason        string     `db:"reason" json:"reason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type OpenNegotiationInput struct {
	VehicleIDStr string  `json:"vehicle_id" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	Reason       string  `json:"reason"`
}

type SubmitOfferInput struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}

type AcceptNegotiationInput struct {
	// Price is optional; when omitted the latest offer's amount is used.
	Price *float64 `json:"price"`
}
