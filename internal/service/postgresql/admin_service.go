package service

import (
	"errors"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
	"github.com/google/uuid"
)

var ErrInvalidDiscountRule = errors.New("max discount percentage must be between 0 and 100 and min price cannot be negative")

// AdminService is the seller authority's read/configure surface:
// negotiation oversight and per-vehicle discount rules.
type AdminService struct {
	negRepo     repo.NegotiationRepository
	vehicleRepo repo.VehicleRepository
}

func NewAdminService(negRepo repo.NegotiationRepository, vehicleRepo repo.VehicleRepository) *AdminService {
	return &AdminService{negRepo: negRepo, vehicleRepo: vehicleRepo}
}

func (s *AdminService) ListNegotiations(status entity.NegotiationStatus, page, perPage int) ([]entity.Negotiation, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.negRepo.ListNegotiations(status, perPage, (page-1)*perPage)
}

func (s *AdminService) NegotiationDetail(id uuid.UUID) (*entity.Negotiation, []entity.Offer, error) {
	negotiation, err := s.negRepo.GetNegotiationByID(id)
	if err != nil {
		return nil, nil, err
	}
	if negotiation == nil {
		return nil, nil, ErrNegotiationNotFound
	}

	offers, err := s.negRepo.ListOffers(id)
	if err != nil {
		return nil, nil, err
	}
	return negotiation, offers, nil
}

type AdminStats struct {
	TotalVehicles      int `json:"total_vehicles"`
	TotalNegotiations  int `json:"total_negotiations"`
	ActiveNegotiations int `json:"active_negotiations"`
	AcceptedCount      int `json:"accepted_count"`
	RejectedCount      int `json:"rejected_count"`
}

func (s *AdminService) Stats() (*AdminStats, error) {
	var stats AdminStats
	var err error

	if stats.TotalVehicles, err = s.vehicleRepo.CountVehicles(); err != nil {
		return nil, err
	}
	if stats.TotalNegotiations, err = s.negRepo.CountNegotiations(); err != nil {
		return nil, err
	}

	pending, err := s.negRepo.CountNegotiationsByStatus(entity.StatusPending)
	if err != nil {
		return nil, err
	}
	ongoing, err := s.negRepo.CountNegotiationsByStatus(entity.StatusOngoing)
	if err != nil {
		return nil, err
	}
	stats.ActiveNegotiations = pending + ongoing

	if stats.AcceptedCount, err = s.negRepo.CountNegotiationsByStatus(entity.StatusAccepted); err != nil {
		return nil, err
	}
	if stats.RejectedCount, err = s.negRepo.CountNegotiationsByStatus(entity.StatusRejected); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetDiscountRule configures or replaces the vehicle's negotiation
// floor. Rules are read-only to the pricing engine.
func (s *AdminService) SetDiscountRule(vehicleID uuid.UUID, input entity.SetDiscountRuleInput) (*entity.DiscountRule, error) {
	if input.MaxDiscountPercentage <= 0 || input.MaxDiscountPercentage >= 100 || input.MinPriceAllowed < 0 {
		return nil, ErrInvalidDiscountRule
	}

	vehicle, err := s.vehicleRepo.GetVehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	rule := &entity.DiscountRule{
		ID:                    uuid.New(),
		VehicleID:             vehicleID,
		MaxDiscountPercentage: input.MaxDiscountPercentage,
		MinPriceAllowed:       input.MinPriceAllowed,
	}
	if err := s.vehicleRepo.UpsertDiscountRule(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *AdminService) GetDiscountRule(vehicleID uuid.UUID) (*entity.DiscountRule, error) {
	vehicle, err := s.vehicleRepo.GetVehicleByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	return s.vehicleRepo.GetDiscountRule(vehicleID)
}
