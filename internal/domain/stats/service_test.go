package stats

import (
	"context"
	"math"
	"testing"
	"time"
)

func date(day int) time.Time {
	return time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
}

func TestComputeStatsTotals(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

	personal := []PersonalRecord{
		{Date: date(2), Amount: 40, Description: "Groceries"},
	}
	ownShares := []OwnShareRecord{
		{Date: date(5), Amount: 100, SelfPaid: true, Description: "Dinner"},
		{Date: date(9), Amount: 25, SelfPaid: false, Description: "Taxi"},
	}
	lent := []LentShareRecord{
		{Date: date(5), Amount: 200, Description: "Dinner"},
	}

	stats := ComputeStats(from, to, personal, ownShares, lent)

	if stats.Personal != 40 {
		t.Fatalf("personal = %v, want 40", stats.Personal)
	}
	if stats.Borrowed != 25 {
		t.Fatalf("borrowed = %v, want 25", stats.Borrowed)
	}
	if stats.Lent != 200 {
		t.Fatalf("lent = %v, want 200", stats.Lent)
	}

	// Every dollar of own consumption: personal plus all own shares.
	wantTotal := stats.Personal + 100 + 25
	if math.Abs(stats.TotalExpenditure-wantTotal) > 1e-9 {
		t.Fatalf("totalExpenditure = %v, want %v", stats.TotalExpenditure, wantTotal)
	}
}

func TestComputeStatsDenseSeries(t *testing.T) {
	from := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)

	stats := ComputeStats(from, to, nil, nil, nil)

	if len(stats.Days) != 28 {
		t.Fatalf("expected 28 days, got %d", len(stats.Days))
	}
	for _, day := range stats.Days {
		if day.Personal != 0 || day.Borrowed != 0 || day.Lent != 0 || day.TotalExpenditure != 0 {
			t.Fatalf("expected zero-initialized day, got %+v", day)
		}
	}
	if stats.Days[0].Date != "2026-02-01" || stats.Days[27].Date != "2026-02-28" {
		t.Fatalf("unexpected series bounds %s..%s", stats.Days[0].Date, stats.Days[27].Date)
	}
}

func TestComputeStatsDayRouting(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

	personal := []PersonalRecord{{Date: date(3), Amount: 10}}
	ownShares := []OwnShareRecord{{Date: date(3), Amount: 15, SelfPaid: false}}
	lent := []LentShareRecord{{Date: date(7), Amount: 30}}

	stats := ComputeStats(from, to, personal, ownShares, lent)

	day3 := stats.Days[2]
	if day3.Personal != 10 || day3.Borrowed != 15 || day3.TotalExpenditure != 25 {
		t.Fatalf("unexpected day 3 buckets %+v", day3)
	}
	day7 := stats.Days[6]
	if day7.Lent != 30 || day7.TotalExpenditure != 0 {
		t.Fatalf("unexpected day 7 buckets %+v", day7)
	}
}

func TestComputeBreakdown(t *testing.T) {
	personal := []PersonalRecord{{Date: date(2), Amount: 40, Description: "Groceries"}}
	ownShares := []OwnShareRecord{
		{Date: date(5), Amount: 100, SelfPaid: true, Description: "Dinner"},
		{Date: date(5), Amount: 25, SelfPaid: false, Description: "Taxi"},
	}

	days := ComputeBreakdown(personal, ownShares)

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %+v", days)
	}
	// Newest day first.
	if days[0].Date != "2026-03-05" || days[1].Date != "2026-03-02" {
		t.Fatalf("unexpected order %s, %s", days[0].Date, days[1].Date)
	}
	if days[0].Total != 125 {
		t.Fatalf("expected day total 125, got %v", days[0].Total)
	}

	kinds := map[string]bool{}
	for _, entry := range days[0].Entries {
		kinds[entry.Kind] = true
	}
	if !kinds[EntrySplitShare] || !kinds[EntryBorrowed] {
		t.Fatalf("expected SPLIT_SHARE and BORROWED entries, got %+v", days[0].Entries)
	}
}

type fakeStatsRepo struct {
	personal  []PersonalRecord
	ownShares []OwnShareRecord
	lent      []LentShareRecord
	gotFrom   time.Time
	gotTo     time.Time
}

func (r *fakeStatsRepo) ListPersonalExpenses(ctx context.Context, userID string, from, to time.Time) ([]PersonalRecord, error) {
	r.gotFrom, r.gotTo = from, to
	return r.personal, nil
}

func (r *fakeStatsRepo) ListOwnShares(ctx context.Context, userID string, from, to time.Time) ([]OwnShareRecord, error) {
	return r.ownShares, nil
}

func (r *fakeStatsRepo) ListLentShares(ctx context.Context, userID string, from, to time.Time) ([]LentShareRecord, error) {
	return r.lent, nil
}

func TestMonthlyStatsWindow(t *testing.T) {
	repo := &fakeStatsRepo{
		personal: []PersonalRecord{{Date: date(2), Amount: 40}},
	}
	service := NewService(repo)

	stats, err := service.MonthlyStats(context.Background(), "alice", date(15))
	if err != nil {
		t.Fatalf("monthly stats: %v", err)
	}

	if len(stats.Days) != 31 {
		t.Fatalf("expected 31 days for March, got %d", len(stats.Days))
	}
	if repo.gotFrom.Day() != 1 || repo.gotTo.Day() != 31 {
		t.Fatalf("unexpected window %v..%v", repo.gotFrom, repo.gotTo)
	}
	if stats.Personal != 40 {
		t.Fatalf("personal = %v, want 40", stats.Personal)
	}
}
