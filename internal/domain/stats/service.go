package stats

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MonthlyStats aggregates the month containing ref; a zero ref means
// the current calendar month.
func (s *Service) MonthlyStats(ctx context.Context, userID string, ref time.Time) (*Stats, error) {
	from, to := monthWindow(ref)

	personal, ownShares, lent, err := s.fetch(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(from, to, personal, ownShares, lent)
	return &stats, nil
}

func (s *Service) MonthlyBreakdown(ctx context.Context, userID string, ref time.Time) ([]BreakdownDay, error) {
	from, to := monthWindow(ref)

	personal, ownShares, _, err := s.fetch(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return ComputeBreakdown(personal, ownShares), nil
}

// fetch runs the three ledger reads concurrently.
func (s *Service) fetch(ctx context.Context, userID string, from, to time.Time) ([]PersonalRecord, []OwnShareRecord, []LentShareRecord, error) {
	var (
		personal  []PersonalRecord
		ownShares []OwnShareRecord
		lent      []LentShareRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		personal, err = s.repo.ListPersonalExpenses(ctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		ownShares, err = s.repo.ListOwnShares(ctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		lent, err = s.repo.ListLentShares(ctx, userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return personal, ownShares, lent, nil
}

func monthWindow(ref time.Time) (time.Time, time.Time) {
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}
