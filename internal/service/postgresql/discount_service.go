package service

import (
	entity "github.com/Faraimunashe/negcom/internal/domain"
)

// EffectiveFloor computes the lowest price a counter or suggestion may
// carry for a vehicle. With both bounds configured the more
// restrictive one wins; with no rule the floor is 0 (a vehicle without
// a rule is unconstrained by this layer).
func EffectiveFloor(listPrice float64, rule *entity.DiscountRule) float64 {
	if rule == nil {
		return 0
	}
	floor := listPrice * (1 - rule.MaxDiscountPercentage/100)
	if rule.MinPriceAllowed > floor {
		floor = rule.MinPriceAllowed
	}
	return floor
}

// ValidateCounter reports whether a proposed price respects the floor.
func ValidateCounter(listPrice float64, rule *entity.DiscountRule, proposedPrice float64) bool {
	return proposedPrice >= EffectiveFloor(listPrice, rule)
}
