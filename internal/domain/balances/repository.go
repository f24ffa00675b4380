package balances

import "context"

type Repository interface {
	// ListSharesByUser returns every share where the user is payer or
	// debtor, joined to its parent expense.
	ListSharesByUser(ctx context.Context, userID string) ([]ShareRecord, error)
	ListSharesByGroup(ctx context.Context, groupID string) ([]ShareRecord, error)
	// ListTransfersAmong returns every payment whose payer and receiver
	// are both in the given set. Payments have no group link of their
	// own, so membership is the only scope.
	ListTransfersAmong(ctx context.Context, userIDs []string) ([]Transfer, error)
}
