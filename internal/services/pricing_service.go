package services

import (
	"fmt"
	"strings"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

const (
	// taxPercent is the fixed service surcharge applied to every booking.
	taxPercent = 10

	promoCode     = "SKY2026"
	promoDiscount = 50000
)

// PricingService derives the money snapshot shown on every step of the
// wizard. The promo policy is a fixed single-code placeholder; swapping in
// a backend-verified lookup replaces ApplyPromoCode without touching the
// ComputePricing contract.
type PricingService struct{}

// NewPricingService creates a new pricing service
func NewPricingService() *PricingService {
	return &PricingService{}
}

// ComputePricing derives subtotal, tax and total from the selected fare
// class, the number of selected seats and the applied discount. Amounts
// are integer minor currency units.
//
// The total is deliberately not clamped at zero: a discount exceeding
// subtotal+tax goes negative, matching the observed product behavior
// until the payments owner decides otherwise.
func (s *PricingService) ComputePricing(class *models.FareClass, seatCount int, discount int64) models.Pricing {
	var base int64
	if class != nil {
		base = class.Price
	}
	subtotal := base * int64(seatCount)
	tax := subtotal * taxPercent / 100
	return models.Pricing{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal + tax - discount,
	}
}

// ApplyPromoCode checks a promo code and returns the discount it grants.
// Matching is case-insensitive; any non-matching code yields a zero
// discount and a failure result, which callers must apply so a failed
// attempt resets any earlier discount.
func (s *PricingService) ApplyPromoCode(code string) models.PromoResult {
	if strings.EqualFold(strings.TrimSpace(code), promoCode) {
		return models.PromoResult{
			Success:       true,
			Message:       fmt.Sprintf("Promo applied! You saved IDR %d", promoDiscount),
			AmountApplied: promoDiscount,
		}
	}
	return models.PromoResult{
		Success: false,
		Message: "Invalid or expired promo code.",
	}
}
