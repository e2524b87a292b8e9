package entity

type DecisionKind string

const (
	DecisionAccept  DecisionKind = "accept"
	DecisionCounter DecisionKind = "counter"
	DecisionSuggest DecisionKind = "suggest"
	DecisionReject  DecisionKind = "reject"
)

// DecisionOutcome is what the pricing engine returns for a buyer offer.
// It is not persisted directly; the state machine turns it into an
// offer or a transition. Message is display-only.
type DecisionOutcome struct {
	Kind       DecisionKind `json:"kind"`
	Price      float64      `json:"price"`
	Confidence float64      `json:"confidence"`
	Message    string       `json:"message"`
}
