package groups

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	Update(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Group, error)
	AddMember(ctx context.Context, member *Member) error
	RemoveMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]Member, error)
	GetMember(ctx context.Context, groupID, userID string) (*Member, error)
}
