package friends

import "context"

type Repository interface {
	Create(ctx context.Context, friendship *Friendship) error
	GetByID(ctx context.Context, id string) (*Friendship, error)
	// GetByPair finds the row between two users in either direction.
	GetByPair(ctx context.Context, userA, userB string) (*Friendship, error)
	Update(ctx context.Context, friendship *Friendship) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, status Status) ([]Friendship, error)
	ListIncoming(ctx context.Context, addresseeID string, status Status) ([]Friendship, error)
}
