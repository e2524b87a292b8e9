package service

import (
	"context"
	"fmt"
	"log"
	"time"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	"github.com/Faraimunashe/negcom/internal/predictor"
	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
)

// Simplified market proxies; a real deployment would read these from
// live market data.
var categoryScores = map[string]float64{
	"Sedan":       0.8,
	"SUV":         0.9,
	"Hatchback":   0.7,
	"Coupe":       0.6,
	"Convertible": 0.5,
	"Truck":       0.8,
	"Van":         0.6,
	"Wagon":       0.7,
}

var seasonalFactors = map[time.Month]float64{
	time.January: 0.9, time.February: 0.9, time.March: 1.0,
	time.April: 1.1, time.May: 1.1, time.June: 1.0,
	time.July: 0.9, time.August: 0.9, time.September: 1.0,
	time.October: 1.0, time.November: 0.9, time.December: 0.9,
}

const (
	defaultCategoryScore = 0.7
	defaultMarketDemand  = 0.7
)

// PricingService decides accept/counter/suggest/reject for a buyer
// offer. It consults the predictor when one is configured and falls
// back to deterministic rules when the predictor is absent, errors, or
// times out. Either path honours the vehicle's discount floor.
type PricingService struct {
	vehicleRepo    repo.VehicleRepository
	predictor      predictor.Predictor
	predictTimeout time.Duration
	now            func() time.Time
}

func NewPricingService(vehicleRepo repo.VehicleRepository, p predictor.Predictor) *PricingService {
	return &PricingService{
		vehicleRepo:    vehicleRepo,
		predictor:      p,
		predictTimeout: 5 * time.Second,
		now:            time.Now,
	}
}

func (s *PricingService) Evaluate(ctx context.Context, vehicle *entity.Vehicle, profile entity.BuyerProfile, offerAmount float64) (*entity.DecisionOutcome, error) {
	rule, err := s.vehicleRepo.GetDiscountRule(vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("load discount rule: %w", err)
	}

	outcome := s.predict(ctx, vehicle, profile, offerAmount)
	if outcome == nil {
		outcome = fallbackOutcome(vehicle.Price, offerAmount)
	}

	return s.applyFloor(outcome, vehicle.Price, rule), nil
}

// predict returns nil whenever the predictor path cannot produce an
// outcome; the caller then takes the fallback branch.
func (s *PricingService) predict(ctx context.Context, vehicle *entity.Vehicle, profile entity.BuyerProfile, offerAmount float64) *entity.DecisionOutcome {
	if s.predictor == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.predictTimeout)
	defer cancel()

	pred, err := s.predictor.Predict(ctx, s.buildFeatures(vehicle, profile, offerAmount))
	if err != nil {
		log.Printf("warning: predictor unavailable, using fallback: %v", err)
		return nil
	}

	return mapPrediction(pred, vehicle.Price, offerAmount)
}

func (s *PricingService) buildFeatures(vehicle *entity.Vehicle, profile entity.BuyerProfile, offerAmount float64) predictor.Features {
	now := s.now()

	categoryScore, ok := categoryScores[vehicle.BodyType]
	if !ok {
		categoryScore = defaultCategoryScore
	}
	seasonalFactor, ok := seasonalFactors[now.Month()]
	if !ok {
		seasonalFactor = 1.0
	}

	return predictor.Features{
		VehiclePrice:               vehicle.Price,
		VehicleYear:                vehicle.Year,
		VehicleMileage:             vehicle.Mileage,
		VehicleAge:                 now.Year() - vehicle.Year,
		CustomerRating:             profile.Rating,
		CustomerPurchaseHistory:    profile.PurchaseCount,
		CustomerNegotiationHistory: profile.NegotiationCount,
		OfferAmount:                offerAmount,
		OfferPercentage:            offerAmount / vehicle.Price * 100,
		VehicleCategoryScore:       categoryScore,
		MarketDemandScore:          defaultMarketDemand,
		SeasonalFactor:             seasonalFactor,
		DaysOnMarket:               int(now.Sub(vehicle.CreatedAt).Hours() / 24),
	}
}

func mapPrediction(pred *predictor.Prediction, listPrice, offerAmount float64) *entity.DecisionOutcome {
	switch pred.PredictedOutcome {
	case predictor.OutcomeAcceptedCustomerOffer:
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionAccept,
			Price:      offerAmount,
			Confidence: pred.OutcomeProbability,
			Message:    fmt.Sprintf("Great offer! We accept your price of $%.2f.", offerAmount),
		}
	case predictor.OutcomeCounterOffer:
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionCounter,
			Price:      pred.PredictedPrice,
			Confidence: pred.OutcomeProbability,
			Message:    counterMessage(listPrice, pred.PredictedPrice),
		}
	case predictor.OutcomeSuggestedPrice:
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionSuggest,
			Price:      pred.PredictedPrice,
			Confidence: pred.OutcomeProbability,
			Message:    suggestMessage(listPrice, pred.PredictedPrice),
		}
	default:
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionReject,
			Price:      listPrice,
			Confidence: pred.OutcomeProbability,
			Message:    rejectMessage(listPrice),
		}
	}
}

// fallbackOutcome is the deterministic path, evaluated in fixed order.
func fallbackOutcome(listPrice, offerAmount float64) *entity.DecisionOutcome {
	ratio := offerAmount / listPrice

	switch {
	case ratio >= 0.95:
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionAccept,
			Price:      offerAmount,
			Confidence: 0.8,
			Message:    fmt.Sprintf("Great offer! We accept your price of $%.2f.", offerAmount),
		}
	case ratio >= 0.85:
		counter := listPrice * 0.92
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionCounter,
			Price:      counter,
			Confidence: 0.7,
			Message:    counterMessage(listPrice, counter),
		}
	default:
		suggested := listPrice * 0.90
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionSuggest,
			Price:      suggested,
			Confidence: 0.6,
			Message:    suggestMessage(listPrice, suggested),
		}
	}
}

// applyFloor clamps counter/suggest prices up to the discount floor.
// A floor above list price means no legal counter exists, so the
// outcome downgrades to a rejection at list price.
func (s *PricingService) applyFloor(outcome *entity.DecisionOutcome, listPrice float64, rule *entity.DiscountRule) *entity.DecisionOutcome {
	if outcome.Kind != entity.DecisionCounter && outcome.Kind != entity.DecisionSuggest {
		return outcome
	}
	if ValidateCounter(listPrice, rule, outcome.Price) {
		return outcome
	}

	floor := EffectiveFloor(listPrice, rule)
	if floor > listPrice {
		return &entity.DecisionOutcome{
			Kind:       entity.DecisionReject,
			Price:      listPrice,
			Confidence: outcome.Confidence,
			Message:    rejectMessage(listPrice),
		}
	}

	outcome.Price = floor
	if outcome.Kind == entity.DecisionCounter {
		outcome.Message = counterMessage(listPrice, floor)
	} else {
		outcome.Message = suggestMessage(listPrice, floor)
	}
	return outcome
}

func counterMessage(listPrice, price float64) string {
	return fmt.Sprintf("Thank you for your offer. We can do $%.2f - that's a %.1f%% discount!",
		price, (listPrice-price)/listPrice*100)
}

func suggestMessage(listPrice, price float64) string {
	return fmt.Sprintf("Based on market conditions and your customer rating, we suggest $%.2f - that's a %.1f%% discount!",
		price, (listPrice-price)/listPrice*100)
}

func rejectMessage(listPrice float64) string {
	return fmt.Sprintf("Unfortunately, we cannot accept that offer. The best price we can offer is $%.2f.", listPrice)
}
