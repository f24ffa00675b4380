package friends

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "splitledger/internal/domain/friends"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, friendship *domain.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	var friendship domain.Friendship
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *PostgresRepository) GetByPair(ctx context.Context, userA, userB string) (*domain.Friendship, error) {
	var friendship domain.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

func (r *PostgresRepository) Update(ctx context.Context, friendship *domain.Friendship) error {
	return r.db.WithContext(ctx).
		Model(&domain.Friendship{}).
		Where("id = ?", friendship.ID).
		Updates(map[string]interface{}{
			"status":     friendship.Status,
			"updated_at": friendship.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Friendship{}, "id = ?", id).Error
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, status domain.Status) ([]domain.Friendship, error) {
	var rows []domain.Friendship
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ListIncoming(ctx context.Context, addresseeID string, status domain.Status) ([]domain.Friendship, error) {
	var rows []domain.Friendship
	err := r.db.WithContext(ctx).
		Where("status = ? AND addressee_id = ?", status, addresseeID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
