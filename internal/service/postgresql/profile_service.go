package service

import (
	"log"
	"math"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
	"github.com/google/uuid"
)

const defaultBuyerRating = 3.5

// ProfileService projects a buyer's order and negotiation history into
// the rating consumed by the pricing engine.
type ProfileService struct {
	buyerRepo repo.BuyerRepository
}

func NewProfileService(buyerRepo repo.BuyerRepository) *ProfileService {
	return &ProfileService{buyerRepo: buyerRepo}
}

// GetBuyerProfile never fails: an unreadable history degrades to the
// default rating rather than blocking the negotiation.
func (s *ProfileService) GetBuyerProfile(buyerID uuid.UUID) entity.BuyerProfile {
	stats, err := s.buyerRepo.GetBuyerStats(buyerID)
	if err != nil {
		log.Printf("warning: failed to load buyer stats for %s: %v", buyerID.String(), err)
		return entity.BuyerProfile{Rating: defaultBuyerRating}
	}

	return entity.BuyerProfile{
		Rating:           computeRating(stats),
		PurchaseCount:    stats.PaidOrderCount,
		NegotiationCount: stats.NegotiationCount,
		TotalSpent:       stats.TotalPaid,
	}
}

// computeRating scores a buyer in [3.0, 5.0]:
// purchase completion rate up to 1.0 point, negotiation success rate
// up to 0.6, normalized average order value (capped at $50k) up to 0.4.
func computeRating(stats *repo.BuyerStats) float64 {
	completionRate := float64(stats.PaidOrderCount) / math.Max(float64(stats.OrderCount), 1)
	successRate := float64(stats.AcceptedNegotiationCnt) / math.Max(float64(stats.NegotiationCount), 1)

	avgOrderValue := stats.TotalPaid / math.Max(float64(stats.PaidOrderCount), 1)
	valueScore := math.Min(avgOrderValue/50000, 1.0)

	rating := 3.0 + completionRate*1.0 + successRate*0.6 + valueScore*0.4
	return math.Min(rating, 5.0)
}
