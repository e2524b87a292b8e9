package service

import (
	"errors"
	"testing"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	"github.com/google/uuid"
)

func TestSetDiscountRule(t *testing.T) {
	store := newMemStore()
	vehicle := testVehicle(20000)
	store.addVehicle(vehicle)
	svc := NewAdminService(store, store)

	rule, err := svc.SetDiscountRule(vehicle.ID, entity.SetDiscountRuleInput{
		MaxDiscountPercentage: 10,
		MinPriceAllowed:       17000,
	})
	if err != nil {
		t.Fatalf("SetDiscountRule: %v", err)
	}
	if rule.VehicleID != vehicle.ID || rule.MaxDiscountPercentage != 10 || rule.MinPriceAllowed != 17000 {
		t.Errorf("rule = %+v", rule)
	}

	stored, err := svc.GetDiscountRule(vehicle.ID)
	if err != nil {
		t.Fatalf("GetDiscountRule: %v", err)
	}
	if stored == nil || stored.MaxDiscountPercentage != 10 {
		t.Errorf("stored rule = %+v", stored)
	}

	// Setting again replaces the previous rule.
	if _, err := svc.SetDiscountRule(vehicle.ID, entity.SetDiscountRuleInput{MaxDiscountPercentage: 5}); err != nil {
		t.Fatalf("SetDiscountRule replace: %v", err)
	}
	stored, err = svc.GetDiscountRule(vehicle.ID)
	if err != nil {
		t.Fatalf("GetDiscountRule: %v", err)
	}
	if stored.MaxDiscountPercentage != 5 || stored.MinPriceAllowed != 0 {
		t.Errorf("replaced rule = %+v", stored)
	}
}

func TestSetDiscountRuleValidation(t *testing.T) {
	store := newMemStore()
	vehicle := testVehicle(20000)
	store.addVehicle(vehicle)
	svc := NewAdminService(store, store)

	bad := []entity.SetDiscountRuleInput{
		{MaxDiscountPercentage: 0},
		{MaxDiscountPercentage: -5},
		{MaxDiscountPercentage: 100},
		{MaxDiscountPercentage: 10, MinPriceAllowed: -1},
	}
	for _, input := range bad {
		if _, err := svc.SetDiscountRule(vehicle.ID, input); !errors.Is(err, ErrInvalidDiscountRule) {
			t.Errorf("input %+v: err = %v, want ErrInvalidDiscountRule", input, err)
		}
	}

	if _, err := svc.SetDiscountRule(uuid.New(), entity.SetDiscountRuleInput{MaxDiscountPercentage: 10}); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("unknown vehicle: err = %v, want ErrVehicleNotFound", err)
	}
}

func TestGetDiscountRuleWithoutRule(t *testing.T) {
	store := newMemStore()
	vehicle := testVehicle(20000)
	store.addVehicle(vehicle)
	svc := NewAdminService(store, store)

	rule, err := svc.GetDiscountRule(vehicle.ID)
	if err != nil {
		t.Fatalf("GetDiscountRule: %v", err)
	}
	if rule != nil {
		t.Errorf("rule = %+v, want nil when unconfigured", rule)
	}
}

func TestAdminStats(t *testing.T) {
	store := newMemStore()
	negSvc := newTestService(store, nil)
	admin := NewAdminService(store, store)

	n1, _ := openNegotiation(t, negSvc, store, 20000, 18000)
	n2, buyer2 := openNegotiation(t, negSvc, store, 30000, 28000)
	openNegotiation(t, negSvc, store, 25000, 21000)

	if _, err := negSvc.Accept(n1.ID, entity.ActorAdmin, uuid.Nil, nil); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := negSvc.Reject(n2.ID, entity.ActorBuyer, buyer2); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	stats, err := admin.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalVehicles != 3 {
		t.Errorf("TotalVehicles = %d, want 3", stats.TotalVehicles)
	}
	if stats.TotalNegotiations != 3 {
		t.Errorf("TotalNegotiations = %d, want 3", stats.TotalNegotiations)
	}
	if stats.ActiveNegotiations != 1 {
		t.Errorf("ActiveNegotiations = %d, want 1", stats.ActiveNegotiations)
	}
	if stats.AcceptedCount != 1 || stats.RejectedCount != 1 {
		t.Errorf("accepted = %d, rejected = %d, want 1 and 1", stats.AcceptedCount, stats.RejectedCount)
	}
}

func TestNegotiationDetail(t *testing.T) {
	store := newMemStore()
	negSvc := newTestService(store, nil)
	admin := NewAdminService(store, store)
	negotiation, buyerID := openNegotiation(t, negSvc, store, 20000, 17000)
	if _, err := negSvc.SubmitOffer(negotiation.ID, entity.ActorBuyer, buyerID, 17500, ""); err != nil {
		t.Fatalf("SubmitOffer: %v", err)
	}

	detail, offers, err := admin.NegotiationDetail(negotiation.ID)
	if err != nil {
		t.Fatalf("NegotiationDetail: %v", err)
	}
	if detail.ID != negotiation.ID {
		t.Errorf("detail.ID = %s, want %s", detail.ID, negotiation.ID)
	}
	if len(offers) != 2 {
		t.Errorf("len(offers) = %d, want 2", len(offers))
	}

	if _, _, err := admin.NegotiationDetail(uuid.New()); !errors.Is(err, ErrNegotiationNotFound) {
		t.Errorf("err = %v, want ErrNegotiationNotFound", err)
	}
}
