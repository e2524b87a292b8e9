// Package predictor defines the optional settlement-price model
// consulted by the pricing engine. The engine must work identically
// when no predictor is configured.
package predictor

import "context"

// Outcome classes a predictor may return.
const (
	OutcomeAcceptedCustomerOffer = "accepted_customer_offer"
	OutcomeCounterOffer          = "counter_offer"
	OutcomeSuggestedPrice        = "suggested_price"
	OutcomeRejected              = "rejected"
)

// Features is the input vector for a prediction.
type Features struct {
	VehiclePrice               float64 `json:"vehicle_price"`
	VehicleYear                int     `json:"vehicle_year"`
	VehicleMileage             int     `json:"vehicle_mileage"`
	VehicleAge                 int     `json:"vehicle_age"`
	CustomerRating             float64 `json:"customer_rating"`
	CustomerPurchaseHistory    int     `json:"customer_purchase_history"`
	CustomerNegotiationHistory int     `json:"customer_negotiation_history"`
	OfferAmount                float64 `json:"offer_amount"`
	OfferPercentage            float64 `json:"offer_percentage"`
	VehicleCategoryScore       float64 `json:"vehicle_category_score"`
	MarketDemandScore          float64 `json:"market_demand_score"`
	SeasonalFactor             float64 `json:"seasonal_factor"`
	DaysOnMarket               int     `json:"days_on_market"`
}

// Prediction is a settlement estimate with an outcome class and the
// class probability in [0,1].
type Prediction struct {
	PredictedPrice     float64 `json:"predicted_price"`
	PredictedOutcome   string  `json:"predicted_outcome"`
	OutcomeProbability float64 `json:"outcome_probability"`
}

type Predictor interface {
	Predict(ctx context.Context, f Features) (*Prediction, error)
}
