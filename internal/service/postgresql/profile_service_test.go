package service

import (
	"errors"
	"math"
	"testing"

	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
	"github.com/google/uuid"
)

func TestComputeRating(t *testing.T) {
	tests := []struct {
		name  string
		stats repo.BuyerStats
		want  float64
	}{
		{"no history floors at 3.0", repo.BuyerStats{}, 3.0},
		{
			"perfect history caps at 5.0",
			repo.BuyerStats{OrderCount: 4, PaidOrderCount: 4, TotalPaid: 400000, NegotiationCount: 5, AcceptedNegotiationCnt: 5},
			5.0,
		},
		{
			"mixed history",
			// completion 0.5, success 0.5, avg order 20000/50000 = 0.4
			repo.BuyerStats{OrderCount: 2, PaidOrderCount: 1, TotalPaid: 20000, NegotiationCount: 2, AcceptedNegotiationCnt: 1},
			3.0 + 0.5 + 0.3 + 0.16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.stats
			if got := computeRating(&stats); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeRating = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestGetBuyerProfile(t *testing.T) {
	svc := NewProfileService(&fakeBuyerRepo{stats: &repo.BuyerStats{
		OrderCount:             3,
		PaidOrderCount:         2,
		TotalPaid:              30000,
		NegotiationCount:       4,
		AcceptedNegotiationCnt: 1,
	}})

	profile := svc.GetBuyerProfile(uuid.New())
	if profile.PurchaseCount != 2 || profile.NegotiationCount != 4 || profile.TotalSpent != 30000 {
		t.Errorf("profile = %+v", profile)
	}
	if profile.Rating <= 3.0 || profile.Rating > 5.0 {
		t.Errorf("rating = %.2f, want within (3.0, 5.0]", profile.Rating)
	}
}

func TestGetBuyerProfileDegradesOnError(t *testing.T) {
	svc := NewProfileService(&fakeBuyerRepo{err: errors.New("db gone")})

	profile := svc.GetBuyerProfile(uuid.New())
	if profile.Rating != defaultBuyerRating {
		t.Errorf("rating = %.2f, want default %.2f", profile.Rating, defaultBuyerRating)
	}
	if profile.PurchaseCount != 0 || profile.NegotiationCount != 0 {
		t.Errorf("profile = %+v, want zero history", profile)
	}
}
