package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"splitledger/internal/domain/users"
)

const memberCacheTTL = 5 * time.Minute

// UserDirectory resolves users when adding members by email and when
// listing members with their details.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]users.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	cache Cache
}

func NewService(repo Repository, directory UserDirectory, cache Cache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, users: directory, cache: cache}
}

func (s *Service) Create(ctx context.Context, userID string, input CreateGroupInput) (*Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	group := Group{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   normalizeDescription(input.Description),
		SimplifyDebts: input.SimplifyDebts,
		CreatedBy:     userID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &group); err != nil {
			return err
		}
		member := Member{
			ID:      uuid.NewString(),
			GroupID: group.ID,
			UserID:  userID,
			Role:    RoleAdmin,
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}

	return &group, nil
}

// Get returns the group to members only. Non-members get ErrNotMember,
// not ErrGroupNotFound, so a forbidden group is distinguishable from a
// missing one.
func (s *Service) Get(ctx context.Context, userID, groupID string) (*Group, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Group, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, groupID string, input UpdateGroupInput) (*Group, error) {
	if err := s.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		group.Name = name
	}
	if input.Description.Set {
		group.Description = normalizeDescription(input.Description.Value)
	}
	if input.SimplifyDebts != nil {
		group.SimplifyDebts = *input.SimplifyDebts
	}
	group.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *Service) Delete(ctx context.Context, userID, groupID string) error {
	if err := s.RequireMember(ctx, userID, groupID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, groupID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGroupNotFound
	}

	s.cache.DeleteGroup(groupID)
	return nil
}

// AddMemberByEmail lets any existing member invite a registered user.
func (s *Service) AddMemberByEmail(ctx context.Context, userID, groupID, email string) (*Member, error) {
	if err := s.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetMember(ctx, groupID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	member := Member{
		ID:      uuid.NewString(),
		GroupID: groupID,
		UserID:  user.ID,
		Role:    RoleMember,
	}

	if err := s.repo.AddMember(ctx, &member); err != nil {
		return nil, err
	}

	s.cache.DeleteGroup(groupID)
	return &member, nil
}

func (s *Service) RemoveMember(ctx context.Context, userID, groupID, removeUserID string) error {
	if err := s.RequireMember(ctx, userID, groupID); err != nil {
		return err
	}

	removed, err := s.repo.RemoveMember(ctx, groupID, removeUserID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}

	s.cache.DeleteGroup(groupID)
	return nil
}

func (s *Service) ListMembers(ctx context.Context, userID, groupID string) ([]MemberDetail, error) {
	if err := s.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.UserID)
	}

	details, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]MemberDetail, 0, len(members))
	for _, member := range members {
		detail := MemberDetail{Member: member}
		if user, ok := details[member.UserID]; ok {
			detail.Name = user.Name
			detail.Username = user.Username
			detail.Email = user.Email
		}
		result = append(result, detail)
	}

	return result, nil
}

// MemberIDs returns the member user ids, served from cache when fresh.
func (s *Service) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	if ids, ok := s.cache.GetMemberIDs(groupID); ok {
		return ids, nil
	}

	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.UserID)
	}

	s.cache.SetMemberIDs(groupID, ids, memberCacheTTL)
	return ids, nil
}

func (s *Service) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	ids, err := s.MemberIDs(ctx, groupID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) RequireMember(ctx context.Context, userID, groupID string) error {
	ok, err := s.IsMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

func normalizeDescription(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
