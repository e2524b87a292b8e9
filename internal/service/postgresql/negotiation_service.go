package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ErrInvalidAmount              = errors.New("invalid offer amount")
	ErrDuplicateActiveNegotiation = errors.New("an active negotiation already exists for this vehicle")
	ErrNotActive                  = errors.New("negotiation is no longer active")
	ErrAlreadyTerminal            = errors.New("negotiation has already reached a final state")
	ErrNegotiationNotFound        = errors.New("negotiation not found")
	ErrVehicleNotFound            = errors.New("vehicle not found")
	ErrNoOffers                   = errors.New("negotiation has no offers")
	ErrNotNegotiationOwner        = errors.New("unauthorized: you are not part of this negotiation")
)

// NotificationSink receives transition events after commit. The
// implementation must be non-blocking in effect: it absorbs its own
// failures and never causes a rollback.
type NotificationSink interface {
	NotifyTransition(event entity.NegotiationEvent)
}

// NegotiationService owns the negotiation lifecycle. Every
// read-latest-then-mutate sequence runs inside a per-negotiation
// critical section so two actors cannot both act on stale state.
type NegotiationService struct {
	negRepo     repo.NegotiationRepository
	vehicleRepo repo.VehicleRepository
	profiles    *ProfileService
	pricing     *PricingService
	sink        NotificationSink

	mu    sync.Mutex
	locks map[string]*keyedLock
}

// keyedLock is a mutex with a waiter count so the map entry can be
// dropped once the last holder releases it.
type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewNegotiationService(
	negRepo repo.NegotiationRepository,
	vehicleRepo repo.VehicleRepository,
	profiles *ProfileService,
	pricing *PricingService,
	sink NotificationSink,
) *NegotiationService {
	return &NegotiationService{
		negRepo:     negRepo,
		vehicleRepo: vehicleRepo,
		profiles:    profiles,
		pricing:     pricing,
		sink:        sink,
		locks:       map[string]*keyedLock{},
	}
}

// lock acquires the critical section for a key and returns its
// release func. Negotiation operations key by negotiation id; Open
// keys by (buyer, vehicle) since no id exists yet.
func (s *NegotiationService) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyedLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

func newOfferID() string {
	return ulid.Make().String()
}

// Open creates a negotiation from a buyer's first offer. At most one
// pending/ongoing negotiation may exist per (buyer, vehicle).
func (s *NegotiationService) Open(buyerID, vehicleID uuid.UUID, amount float64, reason string) (*entity.Negotiation, *entity.Offer, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	unlock := s.lock("open:" + buyerID.String() + ":" + vehicleID.String())
	defer unlock()

	vehicle, err := s.vehicleRepo.GetVehicleByID(vehicleID)
	if err != nil {
		return nil, nil, err
	}
	if vehicle == nil {
		return nil, nil, ErrVehicleNotFound
	}

	existing, err := s.negRepo.FindActiveByBuyerAndVehicle(buyerID, vehicleID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrDuplicateActiveNegotiation
	}

	now := time.Now()
	negotiation := &entity.Negotiation{
		ID:        uuid.New(),
		BuyerID:   buyerID,
		VehicleID: vehicleID,
		Status:    entity.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	offer := &entity.Offer{
		ID:            newOfferID(),
		NegotiationID: negotiation.ID,
		OfferedBy:     entity.ActorBuyer,
		Amount:        amount,
		Reason:        reason,
		CreatedAt:     now,
	}

	// One transaction: a negotiation must never exist without its
	// opening offer.
	if err := s.negRepo.CreateNegotiationWithOffer(negotiation, offer); err != nil {
		return nil, nil, fmt.Errorf("open negotiation: %w", err)
	}

	s.emit(negotiation, "", entity.StatusPending, entity.ActorBuyer, offer)
	return negotiation, offer, nil
}

// SubmitOffer appends an offer to an active negotiation and moves it
// to ongoing.
func (s *NegotiationService) SubmitOffer(negotiationID uuid.UUID, actor entity.OfferActor, requesterID uuid.UUID, amount float64, reason string) (*entity.Offer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.lock(negotiationID.String())
	defer unlock()

	negotiation, err := s.getNegotiation(negotiationID)
	if err != nil {
		return nil, err
	}
	if actor == entity.ActorBuyer && negotiation.BuyerID != requesterID {
		return nil, ErrNotNegotiationOwner
	}
	if !negotiation.Status.Active() {
		return nil, ErrNotActive
	}

	return s.appendOffer(negotiation, actor, amount, reason)
}

// appendOffer writes the ledger entry and the ongoing transition.
// Callers must hold the negotiation's lock.
func (s *NegotiationService) appendOffer(negotiation *entity.Negotiation, actor entity.OfferActor, amount float64, reason string) (*entity.Offer, error) {
	offer := &entity.Offer{
		ID:            newOfferID(),
		NegotiationID: negotiation.ID,
		OfferedBy:     actor,
		Amount:        amount,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}

	oldStatus := negotiation.Status
	if err := s.negRepo.InsertOfferWithStatus(offer, entity.StatusOngoing); err != nil {
		return nil, err
	}
	negotiation.Status = entity.StatusOngoing

	s.emit(negotiation, oldStatus, entity.StatusOngoing, actor, offer)
	return offer, nil
}

// Accept closes the negotiation at the given price, or at the latest
// offer's amount when price is nil. The final price is set exactly
// once; repeated calls fail with ErrAlreadyTerminal.
func (s *NegotiationService) Accept(negotiationID uuid.UUID, actor entity.OfferActor, requesterID uuid.UUID, price *float64) (*entity.Negotiation, error) {
	unlock := s.lock(negotiationID.String())
	defer unlock()

	negotiation, err := s.getNegotiation(negotiationID)
	if err != nil {
		return nil, err
	}
	if actor == entity.ActorBuyer && negotiation.BuyerID != requesterID {
		return nil, ErrNotNegotiationOwner
	}

	return s.accept(negotiation, actor, price)
}

func (s *NegotiationService) accept(negotiation *entity.Negotiation, actor entity.OfferActor, price *float64) (*entity.Negotiation, error) {
	if negotiation.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	finalPrice := price
	if finalPrice == nil {
		latest, err := s.negRepo.GetLatestOffer(negotiation.ID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, ErrNoOffers
		}
		finalPrice = &latest.Amount
	}
	if *finalPrice <= 0 {
		return nil, ErrInvalidAmount
	}

	oldStatus := negotiation.Status
	if err := s.negRepo.UpdateNegotiationStatus(negotiation.ID, entity.StatusAccepted, finalPrice); err != nil {
		return nil, err
	}
	negotiation.Status = entity.StatusAccepted
	negotiation.FinalPrice = finalPrice

	latest, _ := s.negRepo.GetLatestOffer(negotiation.ID)
	s.emit(negotiation, oldStatus, entity.StatusAccepted, actor, latest)
	return negotiation, nil
}

func (s *NegotiationService) Reject(negotiationID uuid.UUID, actor entity.OfferActor, requesterID uuid.UUID) (*entity.Negotiation, error) {
	return s.close(negotiationID, entity.StatusRejected, actor, requesterID)
}

func (s *NegotiationService) Cancel(negotiationID uuid.UUID, actor entity.OfferActor, requesterID uuid.UUID) (*entity.Negotiation, error) {
	return s.close(negotiationID, entity.StatusCancelled, actor, requesterID)
}

func (s *NegotiationService) Expire(negotiationID uuid.UUID, actor entity.OfferActor) (*entity.Negotiation, error) {
	return s.close(negotiationID, entity.StatusExpired, actor, uuid.Nil)
}

// close moves a negotiation to a priceless terminal state.
func (s *NegotiationService) close(negotiationID uuid.UUID, status entity.NegotiationStatus, actor entity.OfferActor, requesterID uuid.UUID) (*entity.Negotiation, error) {
	unlock := s.lock(negotiationID.String())
	defer unlock()

	negotiation, err := s.getNegotiation(negotiationID)
	if err != nil {
		return nil, err
	}
	if actor == entity.ActorBuyer && negotiation.BuyerID != requesterID {
		return nil, ErrNotNegotiationOwner
	}

	return s.terminalize(negotiation, status, actor)
}

func (s *NegotiationService) terminalize(negotiation *entity.Negotiation, status entity.NegotiationStatus, actor entity.OfferActor) (*entity.Negotiation, error) {
	if negotiation.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	oldStatus := negotiation.Status
	if err := s.negRepo.UpdateNegotiationStatus(negotiation.ID, status, nil); err != nil {
		return nil, err
	}
	negotiation.Status = status

	latest, _ := s.negRepo.GetLatestOffer(negotiation.ID)
	s.emit(negotiation, oldStatus, status, actor, latest)
	return negotiation, nil
}

// RequestAutomatedResponse evaluates the single latest offer with the
// pricing engine and applies the resulting transition: accept at the
// offered amount, counter/suggest as an automated-agent offer, or
// reject.
func (s *NegotiationService) RequestAutomatedResponse(ctx context.Context, negotiationID uuid.UUID) (*entity.DecisionOutcome, *entity.Offer, error) {
	unlock := s.lock(negotiationID.String())
	defer unlock()

	negotiation, err := s.getNegotiation(negotiationID)
	if err != nil {
		return nil, nil, err
	}
	if !negotiation.Status.Active() {
		return nil, nil, ErrNotActive
	}

	latest, err := s.negRepo.GetLatestOffer(negotiation.ID)
	if err != nil {
		return nil, nil, err
	}
	if latest == nil {
		return nil, nil, ErrNoOffers
	}

	vehicle, err := s.vehicleRepo.GetVehicleByID(negotiation.VehicleID)
	if err != nil {
		return nil, nil, err
	}
	if vehicle == nil {
		return nil, nil, ErrVehicleNotFound
	}

	profile := s.profiles.GetBuyerProfile(negotiation.BuyerID)
	outcome, err := s.pricing.Evaluate(ctx, vehicle, profile, latest.Amount)
	if err != nil {
		return nil, nil, err
	}

	switch outcome.Kind {
	case entity.DecisionAccept:
		if _, err := s.accept(negotiation, entity.ActorAutomatedAgent, &latest.Amount); err != nil {
			return nil, nil, err
		}
		return outcome, nil, nil
	case entity.DecisionCounter, entity.DecisionSuggest:
		counter, err := s.appendOffer(negotiation, entity.ActorAutomatedAgent, outcome.Price, outcome.Message)
		if err != nil {
			return nil, nil, err
		}
		return outcome, counter, nil
	default:
		if _, err := s.terminalize(negotiation, entity.StatusRejected, entity.ActorAutomatedAgent); err != nil {
			return nil, nil, err
		}
		return outcome, nil, nil
	}
}

// GetState returns a negotiation and its latest ledger entry.
func (s *NegotiationService) GetState(negotiationID uuid.UUID) (*entity.Negotiation, *entity.Offer, error) {
	negotiation, err := s.getNegotiation(negotiationID)
	if err != nil {
		return nil, nil, err
	}
	latest, err := s.negRepo.GetLatestOffer(negotiationID)
	if err != nil {
		return nil, nil, err
	}
	return negotiation, latest, nil
}

// GetHistory returns the full ledger in creation order.
func (s *NegotiationService) GetHistory(negotiationID uuid.UUID) ([]entity.Offer, error) {
	if _, err := s.getNegotiation(negotiationID); err != nil {
		return nil, err
	}
	return s.negRepo.ListOffers(negotiationID)
}

func (s *NegotiationService) ListByBuyer(buyerID uuid.UUID, page, perPage int) ([]entity.Negotiation, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return s.negRepo.ListNegotiationsByBuyer(buyerID, perPage, (page-1)*perPage)
}

func (s *NegotiationService) getNegotiation(id uuid.UUID) (*entity.Negotiation, error) {
	negotiation, err := s.negRepo.GetNegotiationByID(id)
	if err != nil {
		return nil, err
	}
	if negotiation == nil {
		return nil, ErrNegotiationNotFound
	}
	return negotiation, nil
}

// emit publishes the committed transition. Delivery problems are the
// sink's to log; they never affect the transition.
func (s *NegotiationService) emit(negotiation *entity.Negotiation, oldStatus, newStatus entity.NegotiationStatus, actor entity.OfferActor, latest *entity.Offer) {
	if s.sink == nil {
		return
	}
	s.sink.NotifyTransition(entity.NegotiationEvent{
		NegotiationID: negotiation.ID,
		BuyerID:       negotiation.BuyerID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     actor,
		LatestOffer:   latest,
	})
}
