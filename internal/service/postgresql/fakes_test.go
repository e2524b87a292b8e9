package service

import (
	"sort"
	"sync"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
	"github.com/google/uuid"
)

// memStore implements the postgres repositories in memory so the
// services can be exercised without a database. writeErr fails the
// transactional writes the way a rolled-back transaction would:
// nothing is stored.
type memStore struct {
	mu           sync.Mutex
	writeErr     error
	negotiations map[uuid.UUID]*entity.Negotiation
	offers       map[uuid.UUID][]entity.Offer
	vehicles     map[uuid.UUID]*entity.Vehicle
	rules        map[uuid.UUID]*entity.DiscountRule
}

func newMemStore() *memStore {
	return &memStore{
		negotiations: map[uuid.UUID]*entity.Negotiation{},
		offers:       map[uuid.UUID][]entity.Offer{},
		vehicles:     map[uuid.UUID]*entity.Vehicle{},
		rules:        map[uuid.UUID]*entity.DiscountRule{},
	}
}

func (m *memStore) addVehicle(v entity.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.ID] = &v
}

func (m *memStore) addRule(r entity.DiscountRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[r.VehicleID] = &r
}

// --- repo.NegotiationRepository ---

func (m *memStore) CreateNegotiationWithOffer(n *entity.Negotiation, o *entity.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := *n
	m.negotiations[n.ID] = &cp
	m.offers[o.NegotiationID] = append(m.offers[o.NegotiationID], *o)
	return nil
}

func (m *memStore) GetNegotiationByID(id uuid.UUID) (*entity.Negotiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.negotiations[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *memStore) FindActiveByBuyerAndVehicle(buyerID, vehicleID uuid.UUID) (*entity.Negotiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.negotiations {
		if n.BuyerID == buyerID && n.VehicleID == vehicleID && n.Status.Active() {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateNegotiationStatus(id uuid.UUID, status entity.NegotiationStatus, finalPrice *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.negotiations[id]
	n.Status = status
	if finalPrice != nil {
		price := *finalPrice
		n.FinalPrice = &price
	}
	return nil
}

func (m *memStore) ListNegotiationsByBuyer(buyerID uuid.UUID, limit, offset int) ([]entity.Negotiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Negotiation{}
	for _, n := range m.negotiations {
		if n.BuyerID == buyerID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return page(out, limit, offset), nil
}

func (m *memStore) ListNegotiations(status entity.NegotiationStatus, limit, offset int) ([]entity.Negotiation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Negotiation{}
	for _, n := range m.negotiations {
		if status == "" || n.Status == status {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func page(in []entity.Negotiation, limit, offset int) []entity.Negotiation {
	if offset >= len(in) {
		return []entity.Negotiation{}
	}
	in = in[offset:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (m *memStore) CountNegotiations() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.negotiations), nil
}

func (m *memStore) CountNegotiationsByStatus(status entity.NegotiationStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.negotiations {
		if n.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *memStore) InsertOfferWithStatus(o *entity.Offer, status entity.NegotiationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.offers[o.NegotiationID] = append(m.offers[o.NegotiationID], *o)
	m.negotiations[o.NegotiationID].Status = status
	return nil
}

func (m *memStore) GetLatestOffer(negotiationID uuid.UUID) (*entity.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	offers := m.offers[negotiationID]
	if len(offers) == 0 {
		return nil, nil
	}
	cp := offers[len(offers)-1]
	return &cp, nil
}

func (m *memStore) ListOffers(negotiationID uuid.UUID) ([]entity.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Offer{}, m.offers[negotiationID]...), nil
}

// --- repo.VehicleRepository ---

func (m *memStore) GetVehicleByID(id uuid.UUID) (*entity.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) GetDiscountRule(vehicleID uuid.UUID) (*entity.DiscountRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[vehicleID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) UpsertDiscountRule(rule *entity.DiscountRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rule
	m.rules[rule.VehicleID] = &cp
	return nil
}

func (m *memStore) ListVehicles(limit, offset int) ([]entity.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Vehicle{}
	for _, v := range m.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (m *memStore) CountVehicles() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vehicles), nil
}

var (
	_ repo.NegotiationRepository = (*memStore)(nil)
	_ repo.VehicleRepository     = (*memStore)(nil)
)

// fakeBuyerRepo returns canned stats or an error.
type fakeBuyerRepo struct {
	stats *repo.BuyerStats
	err   error
}

func (f *fakeBuyerRepo) GetBuyerStats(buyerID uuid.UUID) (*repo.BuyerStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

// recordingSink captures emitted transition events.
type recordingSink struct {
	mu     sync.Mutex
	events []entity.NegotiationEvent
}

func (s *recordingSink) NotifyTransition(event entity.NegotiationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) all() []entity.NegotiationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.NegotiationEvent{}, s.events...)
}
