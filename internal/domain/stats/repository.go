package stats

import (
	"context"
	"time"
)

type Repository interface {
	ListPersonalExpenses(ctx context.Context, userID string, from, to time.Time) ([]PersonalRecord, error)
	ListOwnShares(ctx context.Context, userID string, from, to time.Time) ([]OwnShareRecord, error)
	ListLentShares(ctx context.Context, userID string, from, to time.Time) ([]LentShareRecord, error)
}
