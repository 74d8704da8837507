package domain

// FeeDistribution represents the creator's share of a single trade's
// platform fee, held until its eligibility window has passed.
// Corresponds to the fee_distributions table. One record is created per
// accepted trade; EligibleAt is fixed at creation and never recomputed,
// and Distributed flips false -> true exactly once when claimed.
type FeeDistribution struct {
	ID            string  // UUID
	TokenID       string  // FK to tokens
	TransactionID string  // FK to the originating transaction
	CreatorWallet string  // payout destination
	Amount        float64 // creator fee share (SOL), 0 <= Amount <= originating fee
	EligibleAt    int64   // claim eligibility timestamp (ms), strictly after creation
	Distributed   bool    // true once the claim processor has paid out
	DistributedAt int64   // payout timestamp (ms), 0 until distributed
	CreatedAt     int64   // record creation timestamp (ms)
}
