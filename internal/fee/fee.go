// Package fee computes the platform fee split and creator claim
// eligibility for an executed trade. Pure and deterministic given the
// inputs and "now".
package fee

import (
	"time"
)

// Fee split constants. These are the governing business rules.
const (
	// PlatformFeePercentage is charged on every trade's transaction value.
	PlatformFeePercentage = 0.05

	// MarketCapThreshold separates the two creator fee tiers (USD).
	MarketCapThreshold = 50_000

	// CreatorShareAboveThreshold applies when post-trade market cap
	// exceeds the threshold.
	CreatorShareAboveThreshold = 0.40

	// CreatorShareBelowThreshold applies otherwise.
	CreatorShareBelowThreshold = 0.20

	// EligibilityDelayAboveThreshold gates creator claims in the upper tier.
	EligibilityDelayAboveThreshold = 48 * time.Hour

	// EligibilityDelayBelowThreshold gates creator claims in the lower tier.
	EligibilityDelayBelowThreshold = 7 * 24 * time.Hour
)

// Breakdown is the fee split for a single trade.
type Breakdown struct {
	TotalFee    float64   // transactionValue * PlatformFeePercentage (SOL)
	CreatorFee  float64   // creator's tiered share of TotalFee (SOL)
	PlatformFee float64   // TotalFee - CreatorFee (SOL)
	EligibleAt  time.Time // when the creator share becomes claimable
}

// Compute splits the platform fee for a trade. The tier is chosen by the
// post-trade market cap: above the threshold the creator takes 40% with a
// 48 hour eligibility delay, otherwise 20% with a 7 day delay. The
// platform fee is computed by subtraction so TotalFee == CreatorFee +
// PlatformFee holds exactly.
func Compute(transactionValue, marketCapAfter float64, now time.Time) Breakdown {
	totalFee := transactionValue * PlatformFeePercentage

	share := CreatorShareBelowThreshold
	delay := EligibilityDelayBelowThreshold
	if marketCapAfter > MarketCapThreshold {
		share = CreatorShareAboveThreshold
		delay = EligibilityDelayAboveThreshold
	}

	creatorFee := totalFee * share
	return Breakdown{
		TotalFee:    totalFee,
		CreatorFee:  creatorFee,
		PlatformFee: totalFee - creatorFee,
		EligibleAt:  now.Add(delay),
	}
}
