package scraper

import (
	"fmt"
	"math"
)

// InferPricingModel implements the pricing inference heuristic from spec
// §4.2: Free if the free flag is set and there are no in-app purchases,
// Freemium if free but purchases exist, "Paid (<display>)" if a price is
// known, Paid otherwise.
func InferPricingModel(isFree, hasInAppPurchases bool, priceDisplay string) string {
	switch {
	case isFree && !hasInAppPurchases:
		return "Free"
	case isFree && hasInAppPurchases:
		return "Freemium"
	case priceDisplay != "":
		return fmt.Sprintf("Paid (%s)", priceDisplay)
	default:
		return "Paid"
	}
}

// StartingConfidence returns a scraper's baseline confidence score (spec
// §4.2: "implementations assign a starting confidence, e.g. 0.8-0.9") and
// reduces it per missing mandatory field, never exceeding 1.0 or dropping
// below 0.
func StartingConfidence(base float64, hasWebsite, hasDescription bool) float64 {
	score := base
	if !hasWebsite {
		score -= 0.1
	}
	if !hasDescription {
		score -= 0.1
	}
	// Round away float noise from the subtractions (0.9-0.1-0.1 is not
	// exactly 0.7 in float64).
	score = math.Round(score*1e4) / 1e4
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
