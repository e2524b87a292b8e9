package predictor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiPredictor estimates settlement prices with a Gemini model
// constrained to JSON output.
type GeminiPredictor struct {
	model *genai.GenerativeModel
}

func NewGeminiPredictor(ctx context.Context, apiKey string) (*GeminiPredictor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash-001")
	model.ResponseMIMEType = "application/json"

	return &GeminiPredictor{model: model}, nil
}

func (p *GeminiPredictor) Predict(ctx context.Context, f Features) (*Prediction, error) {
	prompt := fmt.Sprintf(`
You are a used-vehicle pricing analyst for a dealership. Given the
listing and buyer context below, estimate the price the negotiation
will settle at and classify the most likely outcome of the buyer's
current offer.

Listing:
- List price: $%.2f
- Model year: %d (age %d years)
- Mileage: %d km
- Category demand score: %.2f
- Market demand score: %.2f
- Seasonal factor: %.2f
- Days on market: %d

Buyer:
- Rating: %.2f (3.0 to 5.0)
- Completed purchases: %d
- Past negotiations: %d

Current offer: $%.2f (%.1f%% of list price)

Outcome classes:
- "accepted_customer_offer": the dealer should take the offer as-is
- "counter_offer": the dealer should counter near the predicted price
- "suggested_price": the offer is low; suggest a realistic price
- "rejected": the offer is not workable

Respond in JSON only:
{
  "predicted_price": 0.0,
  "predicted_outcome": "accepted_customer_offer" | "counter_offer" | "suggested_price" | "rejected",
  "outcome_probability": 0.0
}
`,
		f.VehiclePrice, f.VehicleYear, f.VehicleAge, f.VehicleMileage,
		f.VehicleCategoryScore, f.MarketDemandScore, f.SeasonalFactor, f.DaysOnMarket,
		f.CustomerRating, f.CustomerPurchaseHistory, f.CustomerNegotiationHistory,
		f.OfferAmount, f.OfferPercentage,
	)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate prediction: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty prediction response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected prediction response type")
	}

	return parsePrediction([]byte(text))
}

func parsePrediction(raw []byte) (*Prediction, error) {
	var pred Prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("parse prediction JSON: %w", err)
	}

	if pred.PredictedPrice <= 0 {
		return nil, fmt.Errorf("prediction has non-positive price %.2f", pred.PredictedPrice)
	}
	if pred.OutcomeProbability < 0 || pred.OutcomeProbability > 1 {
		return nil, fmt.Errorf("prediction probability %.3f out of range", pred.OutcomeProbability)
	}

	return &pred, nil
}
