// Package events carries cache-invalidation notifications out of the
// ledger after each successful mutation. Consumers use the affected
// user and group identifiers to drop stale balance and stats views.
package events

import "context"

const (
	KindExpenseCreated  = "expense.created"
	KindExpenseDeleted  = "expense.deleted"
	KindSplitSettled    = "split.settled"
	KindPaymentRecorded = "payment.recorded"
	KindPaymentDeleted  = "payment.deleted"
)

// Event names every scope a mutation touched. UserIDs lists each user
// whose balances or stats may have changed; GroupID is empty for
// non-group mutations.
type Event struct {
	Kind    string   `json:"kind"`
	UserIDs []string `json:"user_ids"`
	GroupID string   `json:"group_id,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (*NoopPublisher) Publish(context.Context, Event) error { return nil }

func (*NoopPublisher) Close() error { return nil }
