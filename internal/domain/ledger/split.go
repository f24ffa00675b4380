package ledger

import "math"

// Input validation tolerances. Sums are accepted at the boundary
// (|difference| equal to the tolerance still passes).
const (
	ExactSumTolerance      = 0.05
	PercentageSumTolerance = 0.1
)

// ComputeShares turns a total and the selected participants into one
// owed amount per participant. EQUAL divides evenly with no remainder
// redistribution; EXACT and PERCENTAGE validate the caller's figures
// against the total. The payer's own share comes back already paid.
func ComputeShares(total float64, payerID string, method SplitMethod, participants []ShareInput) ([]Share, error) {
	if total <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	shares := make([]Share, 0, len(participants))

	switch method {
	case MethodEqual:
		each := total / float64(len(participants))
		for _, p := range participants {
			shares = append(shares, Share{
				UserID: p.UserID,
				Amount: each,
				Method: MethodEqual,
				IsPaid: p.UserID == payerID,
			})
		}

	case MethodExact:
		var sum float64
		for _, p := range participants {
			sum += p.Amount
		}
		if math.Abs(sum-total) > ExactSumTolerance {
			return nil, ErrSplitMismatch
		}
		for _, p := range participants {
			shares = append(shares, Share{
				UserID: p.UserID,
				Amount: p.Amount,
				Method: MethodExact,
				IsPaid: p.UserID == payerID,
			})
		}

	case MethodPercentage:
		var sum float64
		for _, p := range participants {
			sum += p.Percentage
		}
		if math.Abs(sum-100) > PercentageSumTolerance {
			return nil, ErrSplitMismatch
		}
		for _, p := range participants {
			pct := p.Percentage
			shares = append(shares, Share{
				UserID:     p.UserID,
				Amount:     total * pct / 100,
				Method:     MethodPercentage,
				Percentage: &pct,
				IsPaid:     p.UserID == payerID,
			})
		}

	default:
		return nil, ErrSplitMismatch
	}

	return shares, nil
}
