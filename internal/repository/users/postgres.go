package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "splitledger/internal/domain/users"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) Search(ctx context.Context, query, excludeUserID string, limit int) ([]domain.User, error) {
	var users []domain.User
	pattern := query + "%"
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeUserID).
		Where("email LIKE ? OR username LIKE ?", pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, cond string, value string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where(cond, value).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
