package users

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	Search(ctx context.Context, query, excludeUserID string, limit int) ([]User, error)
}
