package groups

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "splitledger/internal/domain/groups"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) Update(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).
		Model(&domain.Group{}).
		Where("id = ?", group.ID).
		Updates(map[string]interface{}{
			"name":           group.Name,
			"description":    group.Description,
			"simplify_debts": group.SimplifyDebts,
			"updated_at":     group.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Group{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at desc").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, groupID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Member{}, "group_id = ? AND user_id = ?", groupID, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, groupID, userID string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}
