package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`         // info, success, warning, error
	Category  string             `bson:"category" json:"category"` // negotiation, system
	RelatedID uuid.UUID          `bson:"related_id" json:"related_id"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// HistoryStatus is an audit record of one status transition.
type HistoryStatus struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	RelatedID   string             `bson:"related_id" json:"related_id"`
	RelatedType string             `bson:"related_type" json:"related_type"`
	OldStatus   string             `bson:"old_status" json:"old_status"`
	NewStatus   string             `bson:"new_status" json:"new_status"`
	ChangedBy   string             `bson:"changed_by" json:"changed_by"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// NegotiationEvent is emitted after every committed transition.
// Delivery is fire-and-forget; a failed sink never rolls the
// transition back.
type NegotiationEvent struct {
	NegotiationID uuid.UUID         `json:"negotiation_id"`
	BuyerID       uuid.UUID         `json:"buyer_id"`
	OldStatus     NegotiationStatus `json:"old_status"`
	NewStatus     NegotiationStatus `json:"new_status"`
	ChangedBy     OfferActor        `json:"changed_by"`
	LatestOffer   *Offer            `json:"latest_offer,omitempty"`
}
