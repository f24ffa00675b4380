package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestComputeSharesEqual(t *testing.T) {
	participants := []ShareInput{{UserID: "alice"}, {UserID: "bob"}, {UserID: "charlie"}}

	shares, err := ComputeShares(300, "alice", MethodEqual, participants)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}

	var sum float64
	for _, share := range shares {
		if share.Amount != 100 {
			t.Fatalf("expected 100 each, got %v", share.Amount)
		}
		if share.Method != MethodEqual {
			t.Fatalf("expected EQUAL method, got %s", share.Method)
		}
		sum += share.Amount
	}
	if math.Abs(sum-300) > 1e-9 {
		t.Fatalf("shares sum %v, want 300", sum)
	}
}

func TestComputeSharesEqualNoRemainderCorrection(t *testing.T) {
	participants := []ShareInput{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}}

	shares, err := ComputeShares(100, "a", MethodEqual, participants)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// Every share is the same uncorrected quotient.
	for _, share := range shares {
		if share.Amount != shares[0].Amount {
			t.Fatalf("expected identical shares, got %v and %v", shares[0].Amount, share.Amount)
		}
	}
}

func TestComputeSharesPayerIsPaid(t *testing.T) {
	participants := []ShareInput{{UserID: "alice"}, {UserID: "bob"}}

	shares, err := ComputeShares(50, "alice", MethodEqual, participants)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for _, share := range shares {
		if share.UserID == "alice" && !share.IsPaid {
			t.Fatal("payer's share must be created paid")
		}
		if share.UserID == "bob" && share.IsPaid {
			t.Fatal("non-payer's share must be unpaid")
		}
	}
}

func TestComputeSharesExactTolerance(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		wantErr bool
	}{
		{"exact match", []float64{60, 40}, false},
		{"within tolerance", []float64{60.02, 40.01}, false},
		{"at the boundary", []float64{60, 40.05}, false},
		{"over the boundary", []float64{60, 40.06}, true},
		{"way off", []float64{10, 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := make([]ShareInput, len(tt.amounts))
			for i, amount := range tt.amounts {
				participants[i] = ShareInput{UserID: string(rune('a' + i)), Amount: amount}
			}

			_, err := ComputeShares(100, "a", MethodExact, participants)
			if tt.wantErr && !errors.Is(err, ErrSplitMismatch) {
				t.Fatalf("expected ErrSplitMismatch, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestComputeSharesPercentage(t *testing.T) {
	participants := []ShareInput{
		{UserID: "alice", Percentage: 50},
		{UserID: "bob", Percentage: 30},
		{UserID: "charlie", Percentage: 20},
	}

	shares, err := ComputeShares(200, "alice", MethodPercentage, participants)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	want := map[string]float64{"alice": 100, "bob": 60, "charlie": 40}
	for _, share := range shares {
		if share.Amount != want[share.UserID] {
			t.Fatalf("%s: got %v, want %v", share.UserID, share.Amount, want[share.UserID])
		}
		if share.Percentage == nil {
			t.Fatalf("%s: expected percentage recorded", share.UserID)
		}
	}
}

func TestComputeSharesPercentageTolerance(t *testing.T) {
	tests := []struct {
		name        string
		percentages []float64
		wantErr     bool
	}{
		{"exact 100", []float64{50, 50}, false},
		{"at the boundary", []float64{50, 50.1}, false},
		{"over the boundary", []float64{50, 50.11}, true},
		{"under 100", []float64{40, 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := make([]ShareInput, len(tt.percentages))
			for i, pct := range tt.percentages {
				participants[i] = ShareInput{UserID: string(rune('a' + i)), Percentage: pct}
			}

			_, err := ComputeShares(100, "a", MethodPercentage, participants)
			if tt.wantErr && !errors.Is(err, ErrSplitMismatch) {
				t.Fatalf("expected ErrSplitMismatch, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestComputeSharesErrors(t *testing.T) {
	participants := []ShareInput{{UserID: "a"}}

	if _, err := ComputeShares(0, "a", MethodEqual, participants); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero total, got %v", err)
	}
	if _, err := ComputeShares(-10, "a", MethodEqual, participants); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative total, got %v", err)
	}
	if _, err := ComputeShares(100, "a", MethodEqual, nil); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
}
