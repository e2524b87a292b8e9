package predictor

import "testing"

func TestParsePrediction(t *testing.T) {
	raw := []byte(`{"predicted_price": 18400.0, "predicted_outcome": "counter_offer", "outcome_probability": 0.82}`)

	pred, err := parsePrediction(raw)
	if err != nil {
		t.Fatalf("parsePrediction: %v", err)
	}
	if pred.PredictedPrice != 18400 {
		t.Errorf("PredictedPrice = %.2f, want 18400", pred.PredictedPrice)
	}
	if pred.PredictedOutcome != OutcomeCounterOffer {
		t.Errorf("PredictedOutcome = %q, want %q", pred.PredictedOutcome, OutcomeCounterOffer)
	}
	if pred.OutcomeProbability != 0.82 {
		t.Errorf("OutcomeProbability = %.2f, want 0.82", pred.OutcomeProbability)
	}
}

func TestParsePredictionInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `counter at 18400`},
		{"zero price", `{"predicted_price": 0, "predicted_outcome": "counter_offer", "outcome_probability": 0.8}`},
		{"negative price", `{"predicted_price": -100, "predicted_outcome": "counter_offer", "outcome_probability": 0.8}`},
		{"probability above one", `{"predicted_price": 18400, "predicted_outcome": "counter_offer", "outcome_probability": 1.2}`},
		{"negative probability", `{"predicted_price": 18400, "predicted_outcome": "counter_offer", "outcome_probability": -0.1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePrediction([]byte(tt.raw)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
