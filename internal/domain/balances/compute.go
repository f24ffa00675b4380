package balances

import (
	"math"
	"sort"
)

// balanceDust is the threshold below which an accumulated balance is
// treated as settled.
const balanceDust = 0.01

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}

// ComputeFriendBalances accumulates the subject's unpaid shares into a
// signed net per counterparty. Direct payments are deliberately not
// consulted here; only the paid flag on a share affects the result.
func ComputeFriendBalances(subjectID string, shares []ShareRecord) []SignedBalance {
	totals := make(map[string]float64)

	for _, share := range shares {
		if share.Paid {
			continue
		}
		switch {
		case share.PayerID == subjectID && share.DebtorID != subjectID:
			totals[share.DebtorID] += share.Amount
		case share.DebtorID == subjectID && share.PayerID != subjectID:
			totals[share.PayerID] -= share.Amount
		}
	}

	result := make([]SignedBalance, 0, len(totals))
	for userID, amount := range totals {
		if math.Abs(amount) < balanceDust {
			continue
		}
		result = append(result, SignedBalance{UserID: userID, Amount: amount})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}
		return result[i].UserID < result[j].UserID
	})

	return result
}

// ComputeGroupBalances builds the pairwise debt matrix for a group and
// returns either the raw directed debts or, when simplify is set, the
// minimal settlement edges over each member's net position.
func ComputeGroupBalances(memberIDs []string, shares []ShareRecord, transfers []Transfer, simplify bool) []SettlementEdge {
	members := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}

	// debt[a][b] is what a owes b; the matrix stays antisymmetric.
	debt := make(map[string]map[string]float64, len(memberIDs))
	for _, id := range memberIDs {
		debt[id] = make(map[string]float64, len(memberIDs))
	}

	add := func(from, to string, amount float64) {
		debt[from][to] += amount
		debt[to][from] -= amount
	}

	for _, share := range shares {
		if share.DebtorID == share.PayerID {
			continue
		}
		if _, ok := members[share.DebtorID]; !ok {
			continue
		}
		if _, ok := members[share.PayerID]; !ok {
			continue
		}
		add(share.DebtorID, share.PayerID, share.Amount)
	}

	for _, transfer := range transfers {
		if _, ok := members[transfer.PayerID]; !ok {
			continue
		}
		if _, ok := members[transfer.ReceiverID]; !ok {
			continue
		}
		// A payment reduces what the payer owed the receiver.
		add(transfer.PayerID, transfer.ReceiverID, -transfer.Amount)
	}

	sorted := append([]string(nil), memberIDs...)
	sort.Strings(sorted)

	if !simplify {
		edges := make([]SettlementEdge, 0)
		for i, a := range sorted {
			for _, b := range sorted[i+1:] {
				switch {
				case debt[a][b] > balanceDust:
					edges = append(edges, SettlementEdge{FromUserID: a, ToUserID: b, Amount: roundCents(debt[a][b])})
				case debt[b][a] > balanceDust:
					edges = append(edges, SettlementEdge{FromUserID: b, ToUserID: a, Amount: roundCents(debt[b][a])})
				}
			}
		}
		return edges
	}

	// Each unordered pair contributes exactly once to the nets.
	nets := make(map[string]float64, len(sorted))
	for i, a := range sorted {
		for _, b := range sorted[i+1:] {
			nets[a] -= debt[a][b]
			nets[b] += debt[a][b]
		}
	}

	return SimplifyDebts(nets)
}

// SimplifyDebts greedily matches the largest debtor against the largest
// creditor until both lists are exhausted. Nets must sum to ~0. The
// emitted edges settle every member: at most len(nets)-1 edges, each
// positive, together equal to the sum of positive nets.
func SimplifyDebts(nets map[string]float64) []SettlementEdge {
	type position struct {
		userID string
		net    float64
	}

	debtors := make([]position, 0)
	creditors := make([]position, 0)
	for userID, net := range nets {
		switch {
		case net < -balanceDust:
			debtors = append(debtors, position{userID: userID, net: net})
		case net > balanceDust:
			creditors = append(creditors, position{userID: userID, net: net})
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].net != debtors[j].net {
			return debtors[i].net < debtors[j].net
		}
		return debtors[i].userID < debtors[j].userID
	})
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].net != creditors[j].net {
			return creditors[i].net > creditors[j].net
		}
		return creditors[i].userID < creditors[j].userID
	})

	edges := make([]SettlementEdge, 0, len(debtors)+len(creditors))

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtAmount := -debtors[i].net
		creditAmount := creditors[j].net

		settle := roundCents(math.Min(debtAmount, creditAmount))
		if settle > 0 {
			edges = append(edges, SettlementEdge{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     settle,
			})
		}

		debtors[i].net += settle
		creditors[j].net -= settle

		// Both sides may zero out in the same iteration.
		if math.Abs(debtors[i].net) < balanceDust {
			i++
		}
		if math.Abs(creditors[j].net) < balanceDust {
			j++
		}
	}

	return edges
}

// ComputeOverview sums the subject's unpaid shares both ways.
func ComputeOverview(subjectID string, shares []ShareRecord) Overview {
	var overview Overview

	for _, share := range shares {
		if share.Paid {
			continue
		}
		switch {
		case share.PayerID == subjectID && share.DebtorID != subjectID:
			overview.YouAreOwed += share.Amount
		case share.DebtorID == subjectID && share.PayerID != subjectID:
			overview.YouOwe += share.Amount
		}
	}

	overview.YouOwe = roundCents(overview.YouOwe)
	overview.YouAreOwed = roundCents(overview.YouAreOwed)
	overview.TotalBalance = roundCents(overview.YouAreOwed - overview.YouOwe)
	return overview
}
